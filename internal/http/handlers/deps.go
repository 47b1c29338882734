package handlers

import (
	"github.com/jmoiron/sqlx"

	"staffdir/internal/repos"
	"staffdir/internal/services"
)

type Deps struct {
	UserHandler *UserHandler
	AuthHandler *AuthHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	store := repos.NewUserStore(db)

	dirSvc := &services.DirectoryService{Store: store}
	updSvc := &services.UpdateService{Store: store}
	authSvc := &services.AuthService{Store: store}

	return &Deps{
		UserHandler: &UserHandler{Directory: dirSvc, Updates: updSvc},
		AuthHandler: &AuthHandler{Auth: authSvc},
	}
}
