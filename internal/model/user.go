package model

// User roles
const (
	RoleAdmin  = "admin"
	RoleMember = "user"
)

// User is a mock account
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	Role         string `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Bio          string `json:"bio,omitempty"`
	PasswordHash string `json:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SignupRequest creates an account
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest authenticates an account
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdate is the dashboard profile form. Omitted fields keep their
// current value.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

// PropertyInput is the admin create/update form
type PropertyInput struct {
	Title       string   `json:"title" binding:"required"`
	Price       string   `json:"price" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Bedrooms    int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int      `json:"bathrooms" binding:"gte=0"`
	Area        string   `json:"area"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
}

// ToProperty converts the form into a catalog record
func (in PropertyInput) ToProperty(id int64) Property {
	return Property{
		ID:          id,
		Title:       in.Title,
		Price:       in.Price,
		Location:    in.Location,
		Type:        in.Type,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		Description: in.Description,
		Image:       in.Image,
		Features:    in.Features,
	}
}
