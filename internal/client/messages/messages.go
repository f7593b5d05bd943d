// Package messages turns errors and events into short user-facing strings in
// the user's language. English is the source language; Spanish translations
// are registered in the x/text default catalog.
package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. They double as the English text.
const (
	SigningIn          = "Signing in..."
	SignedIn           = "Welcome back, %s!"
	CreatingAccount    = "Creating your account..."
	AccountCreated     = "Account created. Welcome to NEXO!"
	SignedOut          = "You have been signed out."
	InvalidCredentials = "Invalid email or password."
	Connectivity       = "Could not reach NEXO. Check your internet connection and try again."
	EmailTaken         = "This email is already registered."
	TooManyAttempts    = "Too many attempts. Please wait a moment and try again."
	CheckForm          = "Please check the form: %s"
	CheckFormGeneric   = "Please check the form and try again."
	Generic            = "Something went wrong. Please try again."
	ConsentSaved       = "Your cookie preferences have been saved."
	UpdateReady        = "A new version of NEXO is available."
	InstallAccepted    = "NEXO was added to your device."
)

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

// spanish holds the Spanish text of every message key.
var spanish = map[string]string{
	SigningIn:          "Iniciando sesión...",
	SignedIn:           "¡Bienvenido de nuevo, %s!",
	CreatingAccount:    "Creando tu cuenta...",
	AccountCreated:     "Cuenta creada. ¡Bienvenido a NEXO!",
	SignedOut:          "Has cerrado sesión.",
	InvalidCredentials: "Correo o contraseña incorrectos.",
	Connectivity:       "No se pudo conectar con NEXO. Revisa tu conexión a internet e inténtalo de nuevo.",
	EmailTaken:         "Este correo ya está registrado.",
	TooManyAttempts:    "Demasiados intentos. Espera un momento e inténtalo de nuevo.",
	CheckForm:          "Revisa el formulario: %s",
	CheckFormGeneric:   "Revisa el formulario e inténtalo de nuevo.",
	Generic:            "Algo salió mal. Inténtalo de nuevo.",
	ConsentSaved:       "Tus preferencias de cookies se han guardado.",
	UpdateReady:        "Hay una nueva versión de NEXO disponible.",
	InstallAccepted:    "NEXO se añadió a tu dispositivo.",
}

func init() {
	if err := register(language.Spanish, spanish); err != nil {
		panic(err)
	}
}

// register adds table to the default catalog under tag.
func register(tag language.Tag, table map[string]string) error {
	for key, text := range table {
		if err := message.SetString(tag, key, text); err != nil {
			return fmt.Errorf("messages: register %s %q: %w", tag, key, err)
		}
	}
	return nil
}

// Match returns the supported language closest to locale (a BCP 47 tag or
// Accept-Language style list). Unknown or empty input yields English.
func Match(locale string) language.Tag {
	tag, _ := language.MatchStrings(matcher, locale)
	base, _ := tag.Base()
	return language.Make(base.String())
}

// Translator renders message keys in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

func NewTranslator(locale string) *Translator {
	tag := Match(locale)
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Lang returns the two-letter language code, e.g. "es".
func (t *Translator) Lang() string {
	base, _ := t.tag.Base()
	return base.String()
}

func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// FromError maps an auth/API failure to a localized message. Connectivity
// failures always get the connectivity message.
func (t *Translator) FromError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *client.APIError
	hasDetail := errors.As(err, &apiErr) && apiErr.Detail != ""

	switch {
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return t.T(Connectivity)
	case errors.Is(err, client.ErrUnauthorized):
		return t.T(InvalidCredentials)
	case errors.Is(err, client.ErrConflict):
		return t.T(EmailTaken)
	case errors.Is(err, client.ErrRateLimited):
		return t.T(TooManyAttempts)
	case errors.Is(err, client.ErrValidation):
		if hasDetail {
			return t.T(CheckForm, apiErr.Detail)
		}
		return t.T(CheckFormGeneric)
	case hasDetail:
		return apiErr.Detail
	default:
		return t.T(Generic)
	}
}
