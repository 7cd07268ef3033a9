package models

// Address is a saved delivery address on the user profile. Addresses are only
// ever appended by this service, never edited in place or deleted.
type Address struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PinCode      string `json:"pinCode"`
	IsDefault    bool   `json:"isDefault"`
}

// Complete reports whether every field required for delivery is populated.
func (a Address) Complete() bool {
	return a.Name != "" && a.AddressLine1 != "" && a.City != "" && a.State != "" && a.PinCode != ""
}

// Profile is the slice of the user profile this service depends on.
type Profile struct {
	ID          string    `json:"_id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Addresses   []Address `json:"addresses"`
}

// DefaultAddress returns the default address, falling back to the first one.
func (p *Profile) DefaultAddress() (Address, bool) {
	for _, a := range p.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(p.Addresses) > 0 {
		return p.Addresses[0], true
	}
	return Address{}, false
}
