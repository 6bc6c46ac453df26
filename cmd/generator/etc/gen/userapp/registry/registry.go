package registry

//go:generate jamocha-gen --namespace github.com/test/userapp
