package handler

import (
	"errors"
	"sort"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInvalidRequest     = "Invalid request format"
	errInvalidInput       = "Invalid input"
	errEmailInUse         = "Email already in use"
	errServer             = "Server error"
	errServerMessage      = "Something went wrong. Please try again later."
	errInvalidOTP         = "InvalidOTP"
	errOTPExpired         = "OTPExpired"
	errInvalidCredentials = "Invalid email or password"
	errUnauthorized       = "Unauthorized"
	errAccountNotFound    = "Account not found"
)

// invalidInput renders a validation failure as
// {"error":"Invalid input","details":{"fieldErrors":{"email":["Invalid email"]}}}.
// ok is false when err carries no field details.
func invalidInput(err error) (gin.H, bool) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}

	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fieldErrors := make(map[string][]string, len(fields))
	for _, f := range fields {
		fieldErrors[f] = []string{verr.Fields[f]}
	}
	return gin.H{
		"error":   errInvalidInput,
		"details": gin.H{"fieldErrors": fieldErrors},
	}, true
}

func serverError() gin.H {
	return gin.H{"error": errServer, "message": errServerMessage}
}
