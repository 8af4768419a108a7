// Package authcmder provides the auth command for storing API credentials.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/vignettes/pkg/cliui"
	"github.com/papercomputeco/vignettes/pkg/credentials"
)

const authLongDesc string = `Store API credentials for LLM providers.

Credentials are stored in credentials.toml in the .vignettes/ directory. When
llm.api_key is not set, the stored key for the configured provider is used
before falling back to the provider's environment variable.

Supported providers: openai, anthropic, gemini

Examples:
  vignettes auth openai              Prompt for OpenAI API key
  vignettes auth gemini              Prompt for Gemini API key
  vignettes auth --list              List stored credentials
  vignettes auth --remove openai     Remove stored OpenAI credentials
  echo $KEY | vignettes auth openai  Pipe API key from stdin`

const authShortDesc string = "Store API credentials for LLM providers"

type authCommander struct {
	out io.Writer
	mgr *credentials.Manager

	list   bool
	remove string
}

func NewAuthCmd() *cobra.Command {
	cmder := &authCommander{}

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmder.list && cmder.remove == "" && len(args) == 0 {
				return fmt.Errorf("provider argument required\n\nSupported providers: %s", supported())
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			mgr, err := credentials.NewManager(configDir)
			if err != nil {
				return fmt.Errorf("loading credentials: %w", err)
			}
			cmder.mgr = mgr
			cmder.out = cmd.OutOrStdout()

			switch {
			case cmder.list:
				return cmder.runList()
			case cmder.remove != "":
				return cmder.runRemove(normalize(cmder.remove))
			default:
				return cmder.runStore(cmd.InOrStdin(), normalize(args[0]))
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return credentials.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&cmder.list, "list", false, "List providers and where their keys come from")
	cmd.Flags().StringVar(&cmder.remove, "remove", "", "Remove the stored key for a provider")

	return cmd
}

func normalize(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func supported() string {
	return strings.Join(credentials.SupportedProviders(), ", ")
}

func (c *authCommander) runStore(in io.Reader, provider string) error {
	if !credentials.IsSupportedProvider(provider) {
		return fmt.Errorf("unsupported provider: %q\n\nSupported providers: %s", provider, supported())
	}

	apiKey, err := c.readAPIKey(in, provider)
	if err != nil {
		return err
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	if err := c.mgr.SetKey(provider, apiKey); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Stored %s key %s\n\n",
		cliui.SuccessMark, cliui.NameStyle.Render(provider), cliui.DimStyle.Render("("+c.mgr.GetTarget()+")"))
	return nil
}

// runList reports every supported provider: a stored key wins over the
// provider's environment variable, matching how the LLM client resolves it.
func (c *authCommander) runList() error {
	creds, err := c.mgr.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Provider keys"))
	for _, p := range credentials.SupportedProviders() {
		mark, detail := cliui.DimStyle.Render("●"), "not set"

		envVar := credentials.EnvVarForProvider(p)
		if stored, ok := creds.Providers[p]; ok {
			mark, detail = cliui.SuccessMark, credentials.Mask(stored.APIKey)
			if !stored.StoredAt.IsZero() {
				detail += ", stored " + stored.StoredAt.Local().Format(time.DateOnly)
			}
		} else if os.Getenv(envVar) != "" {
			mark, detail = cliui.SuccessMark, "from "+envVar
		}

		fmt.Fprintf(c.out, "  %s  %s  %s\n", mark, cliui.NameStyle.Render(p), cliui.DimStyle.Render(detail))
	}
	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.DimStyle.Render(c.mgr.GetTarget()))

	return nil
}

func (c *authCommander) runRemove(provider string) error {
	if err := c.mgr.RemoveKey(provider); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n  %s Removed %s key\n\n", cliui.SuccessMark, cliui.NameStyle.Render(provider))
	return nil
}

// readAPIKey prompts with hidden input on a terminal and otherwise takes the
// first line of in, so keys can be piped.
func (c *authCommander) readAPIKey(in io.Reader, provider string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(c.out, "Enter API key for %s (%s): ", provider, credentials.EnvVarForProvider(provider))
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(key), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
