package domain

// Principal is the verified identity attached to an authenticated request.
type Principal struct {
	Identifier string `json:"identifier"`
	Role       Role   `json:"role"`
}
