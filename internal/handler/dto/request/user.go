package request

type RegisterUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=255"`
	Role  string `json:"role" binding:"required,oneof=member librarian admin"`
}

type SetActiveRequest struct {
	// pointer so an explicit false passes the required check
	Active *bool `json:"active" binding:"required"`
}
