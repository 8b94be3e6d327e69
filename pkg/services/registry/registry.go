package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/contriview/pkg/models/domain"
	"gopkg.in/ini.v1"
)

var ErrAccountNotFound = errors.New("account not found")

// Registry lists the accounts tracked by the snapshot runner.
type Registry interface {
	ListAccounts(ctx context.Context) ([]domain.TrackedAccount, error)
	GetAccount(ctx context.Context, name string) (domain.TrackedAccount, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// NewRegistry loads an ini file with one section per account:
//
//	[octocat]
//	username = octocat
//	base_url = https://github.example.com
//
// username defaults to the section name.
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts file: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// NewEmptyRegistry returns a registry without accounts.
func NewEmptyRegistry() Registry {
	return &cfgRegistry{cfg: ini.Empty()}
}

func (cr *cfgRegistry) ListAccounts(_ context.Context) ([]domain.TrackedAccount, error) {
	accounts := []domain.TrackedAccount{}
	for _, section := range cr.cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		accounts = append(accounts, accountFromSection(section))
	}
	return accounts, nil
}

func (cr *cfgRegistry) GetAccount(_ context.Context, name string) (domain.TrackedAccount, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || name == ini.DefaultSection {
		return domain.TrackedAccount{}, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return accountFromSection(section), nil
}

func accountFromSection(section *ini.Section) domain.TrackedAccount {
	return domain.TrackedAccount{
		Name:     section.Name(),
		Username: section.Key("username").MustString(section.Name()),
		BaseURL:  section.Key("base_url").String(),
	}
}
