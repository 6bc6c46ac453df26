package users

type UserService interface {
	UserName(id int) string
}

// UserServiceImpl serves users from memory.
//
// @component
type UserServiceImpl struct {
	names map[int]string
}

func NewUserServiceImpl() *UserServiceImpl {
	return &UserServiceImpl{names: map[int]string{1: "john"}}
}

func (s *UserServiceImpl) UserName(id int) string {
	return s.names[id]
}
