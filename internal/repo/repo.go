package repo

import (
	"github.com/GlebRadaev/ledger/internal/pg"
	ledgerrepo "github.com/GlebRadaev/ledger/internal/repo/ledger-repo"
	userrepo "github.com/GlebRadaev/ledger/internal/repo/user-repo"
	"github.com/GlebRadaev/ledger/internal/service/authservice"
	"github.com/GlebRadaev/ledger/internal/service/userservice"
	"github.com/GlebRadaev/ledger/internal/service/webhookservice"
)

type UserRepo interface {
	authservice.Repo
	userservice.UserRepo
}

type LedgerRepo interface {
	webhookservice.LedgerRepo
	userservice.AccountRepo
}

type Repositories struct {
	UserRepo   UserRepo
	LedgerRepo LedgerRepo
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:   userrepo.New(conn),
		LedgerRepo: ledgerrepo.New(conn),
	}
}
