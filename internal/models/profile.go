// internal/models/profile.go
package models

// Profile is owned by the profile service, one per username. Field names
// match the service's JSON exactly; everything but username is optional.
type Profile struct {
	ID                int64  `json:"id,omitempty"`
	Username          string `json:"username"`
	DisplayName       string `json:"displayName,omitempty"`
	AboutMe           string `json:"aboutMe,omitempty"`
	Location          string `json:"location,omitempty"`
	Birthdate         string `json:"birthdate,omitempty"`
	Gender            string `json:"gender,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	SecondaryImageURL string `json:"secondaryImageUrl,omitempty"`
}

// Name returns the display name, falling back to the username.
func (p *Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

// ProfileForm is the create/edit form payload, validated before any call to
// the profile service.
type ProfileForm struct {
	ID                int64  `form:"id" json:"id,omitempty"`
	Username          string `form:"username" json:"username" validate:"required,username"`
	DisplayName       string `form:"displayName" json:"displayName" validate:"required,max=100"`
	AboutMe           string `form:"aboutMe" json:"aboutMe" validate:"max=1000"`
	Location          string `form:"location" json:"location" validate:"max=100"`
	Birthdate         string `form:"birthdate" json:"birthdate"`
	Gender            string `form:"gender" json:"gender" validate:"max=30"`
	PhoneNumber       string `form:"phoneNumber" json:"phoneNumber" validate:"max=30"`
	ProfilePictureURL string `form:"profilePictureUrl" json:"profilePictureUrl" validate:"omitempty,url"`
	SecondaryImageURL string `form:"secondaryImageUrl" json:"secondaryImageUrl" validate:"omitempty,url"`
}
