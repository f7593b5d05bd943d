// Package consentlog keeps an append-only audit trail of cookie-consent
// decisions in the local SQLite database.
//
// The current decision lives in the metadata store; this log records every
// decision (accept all, reject non-essential, saved preferences) together with
// the consent schema version it was made under, so a user can review what
// they agreed to and when.
//
// SQLiteRepository works over dbx.DBTX, so it can take part in the same
// transaction that writes the current record:
//
//	err := dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := metadata.NewSQLiteRepository(tx).Set(ctx, key, value); err != nil {
//	        return err
//	    }
//	    return consentlog.NewSQLiteRepository(tx).Append(ctx, entry)
//	})
package consentlog
