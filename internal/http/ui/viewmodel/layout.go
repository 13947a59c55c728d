package viewmodel

// User is the signed-in operator as shown in the header.
type User struct {
	Name  string
	Email string
	Role  string
}

// Layout captures shared chrome metadata (titles, navigation state, operator).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
}
