package users

// @component
type LegacyUserService struct{}

func NewLegacyUserService() LegacyUserService {
	return LegacyUserService{}
}

func (LegacyUserService) UserName(int) string {
	return "legacy"
}
