package users

type UserService interface {
	UserName() string
}

// UserServiceImpl always serves the same user.
//
// @component
type UserServiceImpl struct {
	name string
}

func NewUserServiceImpl() *UserServiceImpl {
	return &UserServiceImpl{name: "John Doe"}
}

func (s *UserServiceImpl) UserName() string {
	return s.name
}
