package api

import (
	"context"                          // Store calls
	"encoding/json"                    // JSON decode errors
	"errors"                           // Error inspection
	"io"                               // Empty bodies
	"net/http"                         // HTTP status codes
	"strconv"                          // String conversion
	"wallet_registry/internal/domain"  // Importing domain models
	"wallet_registry/internal/service" // Wallet access rules

	"github.com/gin-gonic/gin"         // Gin web framework
	"github.com/gin-gonic/gin/binding" // Request body bindings
	"github.com/sirupsen/logrus"       // Logging library
)

// WalletService is the set of operations the wallet routes expose
type WalletService interface {
	Create(ctx context.Context, in domain.WalletInput) (domain.Envelope, error)
	Get(ctx context.Context, id uint) (*domain.Wallet, error)
	List(ctx context.Context, filter domain.WalletFilter) ([]domain.Wallet, error)
	Replace(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error)
	Patch(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error)
	Delete(ctx context.Context, id uint) error
}

// ListWalletsHandler returns all wallets, optionally filtered by user_id
func ListWalletsHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter domain.WalletFilter
		// An empty user_id means no filter
		if raw := c.Query("user_id"); raw != "" {
			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(c, service.NewValidationError("user_id", service.MsgInvalidInt))
				return
			}
			filter.UserID = &userID
		}
		wallets, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, wallets)
	}
}

// GetWalletHandler returns a single wallet by id
func GetWalletHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := walletID(c)
		if !ok {
			return
		}
		wallet, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, wallet)
	}
}

// CreateWalletHandler stores a new wallet and answers with a status envelope
func CreateWalletHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.WalletInput
		if err := bindWallet(c, &in); err != nil {
			writeError(c, err)
			return
		}
		envelope, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, envelope)
	}
}

// UpdateWalletHandler replaces every mutable field of a wallet
func UpdateWalletHandler(svc WalletService) gin.HandlerFunc {
	return updateHandler(svc.Replace)
}

// PatchWalletHandler updates only the supplied fields of a wallet
func PatchWalletHandler(svc WalletService) gin.HandlerFunc {
	return updateHandler(svc.Patch)
}

func updateHandler(apply func(context.Context, uint, domain.WalletInput) (*domain.Wallet, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := walletID(c)
		if !ok {
			return
		}
		var in domain.WalletInput
		if err := bindWallet(c, &in); err != nil {
			writeError(c, err)
			return
		}
		wallet, err := apply(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, wallet)
	}
}

// DeleteWalletHandler removes a wallet
func DeleteWalletHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := walletID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// walletID parses the :id path parameter. An id that cannot name a wallet is
// answered with 404.
func walletID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, domain.ErrWalletNotFound)
		return 0, false
	}
	return uint(id), true
}

// badRequestError is a body that could not be decoded at all
type badRequestError struct {
	detail string
}

func (e *badRequestError) Error() string { return e.detail }

// walletForm is the form-encoded and multipart shape of a wallet payload
type walletForm struct {
	UserID     *string `form:"user_id"`
	Address    *string `form:"address"`
	PrivateKey *string `form:"private_key"`
	PublicKey  *string `form:"public_key"`
}

func (f walletForm) input() domain.WalletInput {
	in := domain.WalletInput{Address: f.Address, PrivateKey: f.PrivateKey, PublicKey: f.PublicKey}
	if f.UserID != nil {
		in.SetUserIDText(*f.UserID)
	}
	return in
}

// bindWallet decodes a JSON, form-encoded or multipart body into in.
// Validation is left to the service.
func bindWallet(c *gin.Context, in *domain.WalletInput) error {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		var form walletForm
		// Gin picks the form or multipart binding from Content-Type
		if err := c.ShouldBind(&form); err != nil {
			return &badRequestError{detail: "Form parse error - " + err.Error()}
		}
		*in = form.input()
		return nil
	}

	err := c.ShouldBindJSON(in)
	if err == nil || errors.Is(err, io.EOF) {
		return nil // An empty body is an empty payload
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &badRequestError{detail: "Invalid data. Expected a JSON object."}
	}
	return &badRequestError{detail: "JSON parse error - " + err.Error()}
}

// writeError maps service errors onto HTTP responses
func writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var badRequest *badRequestError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, validationErr.Fields)
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadRequest, gin.H{"detail": badRequest.detail})
	case errors.Is(err, domain.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		}).Error("Wallet request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
