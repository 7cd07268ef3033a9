package services

import (
	"context"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/models"
	"go.uber.org/zap"
)

// AddressPolicy selects how checkout obtains a delivery address. The policy
// is fixed at construction; it is never mixed per request.
type AddressPolicy string

const (
	// PolicySkipIfComplete uses the profile's default (or first) address
	// directly when the profile already carries a valid phone number and a
	// fully populated address.
	PolicySkipIfComplete AddressPolicy = "skip-if-complete"
	// PolicyAlwaysPrompt always requires the shopper to pick or enter an
	// address, even when the profile is complete.
	PolicyAlwaysPrompt AddressPolicy = "always-prompt"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ResolvedAddress is the concrete (address, phone) pair checkout proceeds with.
type ResolvedAddress struct {
	Address models.Address `json:"address"`
	Phone   string         `json:"phone"`
}

// NewAddressRequest is the add-new-address submission.
type NewAddressRequest struct {
	PhoneNumber  string `json:"phoneNumber" validate:"required,len=10,numeric"`
	Name         string `json:"name" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PinCode      string `json:"pinCode" validate:"required,len=6,numeric"`
	IsDefault    bool   `json:"isDefault"`

	// Note is the optional free-text order note carried through to checkout.
	Note string `json:"note" validate:"-"`
}

// AddressFlow resolves the delivery address for checkout: either straight
// from the profile (skip-if-complete) or through address collection. New
// addresses are appended to the existing list, never replacing it, and the
// profile is re-fetched after the update.
type AddressFlow struct {
	api      clients.ProfileAPI
	policy   AddressPolicy
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAddressFlow(api clients.ProfileAPI, policy AddressPolicy, logger *zap.Logger) *AddressFlow {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if policy != PolicyAlwaysPrompt {
		policy = PolicySkipIfComplete
	}

	return &AddressFlow{api: api, policy: policy, validate: v, logger: logger}
}

func (f *AddressFlow) Policy() AddressPolicy { return f.policy }

// Resolve inspects the profile per the configured policy. When it returns
// ok=false (and no error), address collection is required before checkout
// can continue.
func (f *AddressFlow) Resolve(ctx context.Context, userID string) (*ResolvedAddress, bool, *ServiceError) {
	if f.policy == PolicyAlwaysPrompt {
		return nil, false, nil
	}

	profile, err := f.api.Get(ctx, userID)
	if err != nil {
		f.logger.Error("Profile fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false, &ServiceError{StatusCode: 502, Message: "Failed to load profile"}
	}

	if !phonePattern.MatchString(profile.PhoneNumber) {
		return nil, false, nil
	}
	addr, ok := profile.DefaultAddress()
	if !ok || !addr.Complete() {
		return nil, false, nil
	}

	return &ResolvedAddress{Address: addr, Phone: profile.PhoneNumber}, true, nil
}

// SelectSavedAddress resolves checkout with one of the profile's saved
// addresses. The phone number is confirmed on every selection.
func (f *AddressFlow) SelectSavedAddress(ctx context.Context, userID, addressID, phone string) (*ResolvedAddress, *ServiceError) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, &ServiceError{StatusCode: 400, Message: "Phone number is required"}
	}
	if !phonePattern.MatchString(phone) {
		return nil, &ServiceError{StatusCode: 400, Message: "Please enter a valid 10-digit phone number"}
	}

	profile, err := f.api.Get(ctx, userID)
	if err != nil {
		f.logger.Error("Profile fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to load profile"}
	}

	for _, addr := range profile.Addresses {
		if addr.ID == addressID {
			return &ResolvedAddress{Address: addr, Phone: phone}, nil
		}
	}
	return nil, &ServiceError{StatusCode: 404, Message: "Please select an address"}
}

// ValidateNewAddress runs the synchronous field validation and returns a
// field-keyed error map; an empty map means the submission may proceed.
func (f *AddressFlow) ValidateNewAddress(req *NewAddressRequest) map[string]string {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Name = strings.TrimSpace(req.Name)
	req.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.PinCode = strings.TrimSpace(req.PinCode)

	errs := make(map[string]string)
	err := f.validate.Struct(req)
	if err == nil {
		return errs
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "Invalid submission"
		return errs
	}

	for _, fe := range validationErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = fieldErrorMessage(field, fe.Tag())
	}
	return errs
}

func fieldErrorMessage(field, tag string) string {
	required := tag == "required"
	switch field {
	case "phoneNumber":
		if required {
			return "Phone number is required"
		}
		return "Please enter a valid 10-digit phone number"
	case "name":
		return "Address label is required"
	case "addressLine1":
		return "Address is required"
	case "city":
		return "City is required"
	case "state":
		return "State is required"
	case "pinCode":
		if required {
			return "Pin code is required"
		}
		return "Please enter a valid 6-digit pin code"
	default:
		return "Invalid value"
	}
}

// SubmitNewAddress validates, appends the new address to the saved list,
// persists via profile update, re-fetches the profile and returns the
// resolved pair. The fieldErrors map is non-nil and non-empty when
// validation blocked the submission.
func (f *AddressFlow) SubmitNewAddress(ctx context.Context, userID string, req *NewAddressRequest) (*ResolvedAddress, map[string]string, *ServiceError) {
	if fieldErrors := f.ValidateNewAddress(req); len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	profile, err := f.api.Get(ctx, userID)
	if err != nil {
		f.logger.Error("Profile fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 502, Message: "Failed to load profile"}
	}

	newAddr := models.Address{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		City:         req.City,
		State:        req.State,
		PinCode:      req.PinCode,
		IsDefault:    req.IsDefault,
	}
	updated := append(append([]models.Address{}, profile.Addresses...), newAddr)

	if err := f.api.Update(ctx, userID, req.PhoneNumber, updated); err != nil {
		f.logger.Error("Profile update failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 502, Message: "Failed to add address. Please try again."}
	}

	refreshed, err := f.api.Get(ctx, userID)
	if err != nil {
		f.logger.Error("Profile refetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 502, Message: "Failed to load profile"}
	}

	// Prefer the persisted copy (it carries the server-assigned id); fall
	// back to the submitted values if it cannot be matched.
	for _, addr := range refreshed.Addresses {
		if addr.Name == newAddr.Name && addr.AddressLine1 == newAddr.AddressLine1 && addr.PinCode == newAddr.PinCode {
			newAddr = addr
			break
		}
	}

	f.logger.Info("Address added", zap.String("user_id", userID), zap.String("label", newAddr.Name))
	return &ResolvedAddress{Address: newAddr, Phone: req.PhoneNumber}, nil, nil
}
