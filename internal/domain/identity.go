package domain

// Identity holds the profile fields of the signed-in customer. Every field is
// optional until profile setup has run.
type Identity struct {
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Pincode         string `json:"pincode,omitempty"`
	ProfileComplete bool   `json:"profile_complete"`
}

// DisplayName picks the best available name for greetings and order messages.
func (i Identity) DisplayName() string {
	switch {
	case i.FullName != "":
		return i.FullName
	case i.Username != "":
		return i.Username
	default:
		return i.Email
	}
}

// IdentityUpdate is a shallow patch: nil fields are left untouched.
type IdentityUpdate struct {
	Email           *string `json:"email,omitempty"`
	Username        *string `json:"username,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	Pincode         *string `json:"pincode,omitempty"`
	ProfileComplete *bool   `json:"profile_complete,omitempty"`
}

// Apply returns a copy of i with the non-nil fields of u applied.
func (u IdentityUpdate) Apply(i Identity) Identity {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&i.Email, u.Email)
	set(&i.Username, u.Username)
	set(&i.FullName, u.FullName)
	set(&i.Phone, u.Phone)
	set(&i.Address, u.Address)
	set(&i.City, u.City)
	set(&i.State, u.State)
	set(&i.Pincode, u.Pincode)
	if u.ProfileComplete != nil {
		i.ProfileComplete = *u.ProfileComplete
	}
	return i
}
