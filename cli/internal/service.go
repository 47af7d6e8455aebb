// Package internal provides CLI internal utilities.
package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	cliconfig "codefloe.com/pat-s/stacker/cli/internal/config"
	"codefloe.com/pat-s/stacker/pkg/auth"
	"codefloe.com/pat-s/stacker/pkg/config"
	"codefloe.com/pat-s/stacker/pkg/forge"
	"codefloe.com/pat-s/stacker/pkg/jj"
)

// Service bundles the clients a command needs: the local jj repository
// and the forge client for the resolved remote.
type Service struct {
	Config *config.Config
	JJ     *jj.Client
	Forge  forge.Forge
	Remote string
	Repo   jj.RepoRef

	// Token is the resolved GitHub token. Nil for forgejo, whose token
	// comes from FORGEJO_TOKEN directly.
	Token *auth.Token
}

// CreateService creates a service from CLI context.
func CreateService(ctx context.Context, c *cli.Command) (*Service, error) {
	cfg, err := cliconfig.GetConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	jjClient := jj.NewClient(jj.ExecRunner{})

	remote := c.String("remote")
	if remote == "" {
		remote = cfg.Remote
	}

	repo, err := ResolveRemote(ctx, jjClient, remote)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("owner", repo.Owner).Str("repo", repo.Repo).Msg("parsed repository info")

	var token *auth.Token
	var tokenValue string
	switch cfg.ForgeType {
	case "forgejo":
		tokenValue = os.Getenv("FORGEJO_TOKEN")
	default:
		token, err = auth.ResolveToken(ctx)
		if err != nil {
			return nil, err
		}
		tokenValue = token.Value
	}

	f, err := forge.NewWithOptions(cfg.ForgeType, tokenValue, repo.Owner, repo.Repo, forge.NewOptions{
		ForgejoURL: cfg.ForgejoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create forge client: %w", err)
	}

	log.Debug().Str("forge", f.Name()).Msg("forge client created")

	return &Service{
		Config: cfg,
		JJ:     jjClient,
		Forge:  f,
		Remote: remote,
		Repo:   repo,
		Token:  token,
	}, nil
}

// ResolveRemote looks up the named remote in the jj repository and
// parses its URL into a repository reference.
func ResolveRemote(ctx context.Context, jjClient *jj.Client, name string) (jj.RepoRef, error) {
	remotes, err := jjClient.Remotes(ctx)
	if err != nil {
		return jj.RepoRef{}, fmt.Errorf("failed to list git remotes: %w", err)
	}

	for _, remote := range remotes {
		if remote.Name != name {
			continue
		}
		repo, err := jj.ParseRemoteURL(remote.URL)
		if err != nil {
			return jj.RepoRef{}, fmt.Errorf("remote %q does not point at a forge repository: %w", name, err)
		}
		return repo, nil
	}

	if len(remotes) == 0 {
		return jj.RepoRef{}, fmt.Errorf("no git remotes configured")
	}

	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Name)
	}
	return jj.RepoRef{}, fmt.Errorf("remote %q not found (configured remotes: %s)", name, strings.Join(names, ", "))
}

// DefaultBranch resolves the trunk branch: the configured override when
// set, otherwise the bookmark on trunk().
func (s *Service) DefaultBranch(ctx context.Context) (string, error) {
	if s.Config.TrunkBranch != "" {
		return s.Config.TrunkBranch, nil
	}
	return s.JJ.DefaultBranch(ctx)
}
