package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/common/types"
	"github.com/solve3/go-solve3/engine"
	"github.com/solve3/go-solve3/metrics"
	"github.com/solve3/go-solve3/proof"
	"github.com/solve3/go-solve3/signing"
)

// addressFlag registers a required address flag and returns its parsed value lazily.
func addressFlag(cmd *cobra.Command, name, usage string) func() (types.Address, error) {
	value := cmd.Flags().String(name, "", usage)
	if err := cmd.MarkFlagRequired(name); err != nil {
		panic(err)
	}
	return func() (types.Address, error) {
		return parseAddress(*value)
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <signer>",
		Short: "initialize the signer registry, the caller becomes the owner",
		Args:  cobra.ExactArgs(1),
	}
	from := addressFlag(cmd, "from", "address of the owner")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := from()
		if err != nil {
			return err
		}
		signer, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			return a.registry.Initialize(cmd.Context(), caller, signer)
		})
	}
	return cmd
}

func signerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "signer", Short: "manage authorized signers"}

	change := func(use, short string, apply func(context.Context, *app, types.Address, types.Address) error) *cobra.Command {
		sub := &cobra.Command{Use: use + " <address>", Short: short, Args: cobra.ExactArgs(1)}
		from := addressFlag(sub, "from", "address of the owner")
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			caller, err := from()
			if err != nil {
				return err
			}
			id, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				return apply(cmd.Context(), a, caller, id)
			})
		}
		return sub
	}
	cmd.AddCommand(
		change("add", "authorize a signer", func(ctx context.Context, a *app, caller, id types.Address) error {
			return a.registry.AddSigner(ctx, caller, id)
		}),
		change("remove", "revoke a signer", func(ctx context.Context, a *app, caller, id types.Address) error {
			return a.registry.RemoveSigner(ctx, caller, id)
		}),
		change("transfer", "transfer ownership of the registry", func(ctx context.Context, a *app, caller, id types.Address) error {
			return a.registry.TransferOwnership(ctx, caller, id)
		}),
		&cobra.Command{
			Use:   "check <address>",
			Short: "check whether address is an authorized signer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(func(a *app) error {
					ok, err := a.engine.IsSigner(id)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), ok)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "list authorized signers",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *app) error {
					all, err := a.registry.Signers(a.db)
					if err != nil {
						return err
					}
					for _, id := range all {
						fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func challengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <account>",
		Short: "print the live challenge of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				ch, err := a.engine.Challenge(cmd.Context(), account)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "timestamp = %d\nnonce = %d\n", ch.Timestamp, ch.Nonce)
				return nil
			})
		},
	}
}

func signCmd() *cobra.Command {
	var (
		key      string
		version  uint
		campaign string
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "attest the live challenge of the account and print the proof",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&key, "key", "", "path to the hex encoded signer key")
	cmd.Flags().UintVar(&version, "version", 0, "protocol version")
	cmd.Flags().StringVar(&campaign, "campaign", "", "campaign id to pay the reward from")
	consumerFlag := addressFlag(cmd, "consumer", "address of the consumer")
	accountFlag := addressFlag(cmd, "account", "address of the account")
	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		consumer, err := consumerFlag()
		if err != nil {
			return err
		}
		account, err := accountFlag()
		if err != nil {
			return err
		}
		id, err := parseCampaignID(campaign)
		if err != nil {
			return err
		}
		signer, err := signing.NewEcdsaSigner(signing.FromFile(key))
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			ch, err := a.engine.Challenge(cmd.Context(), account)
			if err != nil {
				return err
			}
			p, err := signer.Attest(types.NewVersionTag(version), consumer, account, ch, id)
			if err != nil {
				return err
			}
			encoded, err := proof.EncodeHex(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		})
	}
	return cmd
}

func verifyCmd() *cobra.Command {
	var version uint
	cmd := &cobra.Command{
		Use:   "verify <proof>",
		Short: "verify hex encoded proof on behalf of the consumer",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().UintVar(&version, "version", 0, "protocol version")
	consumerFlag := addressFlag(cmd, "consumer", "address of the consumer")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		consumer, err := consumerFlag()
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			var outcome engine.Outcome
			data, err := proof.ParseHex(args[0])
			if err != nil {
				outcome = engine.Outcome{Status: engine.DecodeError, Err: err}
			} else {
				outcome, err = a.engine.Verify(cmd.Context(), types.NewVersionTag(version), data, consumer)
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status = %s\n", outcome.Status)
			if outcome.Reward != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "reward = %s\n", outcome.Reward.Dec())
			}
			if !outcome.Status.OK() {
				return fmt.Errorf("proof rejected: %w", outcome.Err)
			}
			return nil
		})
	}
	return cmd
}

func policyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "policy", Short: "manage consumer freshness windows"}

	var (
		validFrom   uint64
		validPeriod time.Duration
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "set the window of the consumer, the caller must be the consumer",
		Args:  cobra.NoArgs,
	}
	set.Flags().Uint64Var(&validFrom, "valid-from", 0, "earliest accepted proof timestamp, unix seconds")
	set.Flags().DurationVar(&validPeriod, "valid-period", 5*time.Minute, "how long a proof stays valid")
	from := addressFlag(set, "from", "address of the caller")
	consumerFlag := addressFlag(set, "consumer", "address of the consumer")
	set.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := from()
		if err != nil {
			return err
		}
		consumer, err := consumerFlag()
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			return a.engine.SetWindow(cmd.Context(), caller, consumer,
				types.Window{ValidFrom: validFrom, ValidPeriod: validPeriod})
		})
	}

	get := &cobra.Command{
		Use:   "get <consumer>",
		Short: "print the window of the consumer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			consumer, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				w, err := a.engine.Window(consumer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "valid-from = %d\nvalid-period = %s\n", w.ValidFrom, w.ValidPeriod)
				return nil
			})
		},
	}
	cmd.AddCommand(set, get)
	return cmd
}

func campaignCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "campaign", Short: "manage reward campaigns"}

	var (
		label  string
		solves uint32
		reward string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "create a campaign funded by its owner",
		Args:  cobra.NoArgs,
	}
	create.Flags().StringVar(&label, "label", "", "campaign label")
	create.Flags().Uint32Var(&solves, "solves", 1, "number of rewards")
	create.Flags().StringVar(&reward, "reward", "", "reward per solve")
	from := addressFlag(create, "from", "address of the governance owner")
	ownerFlag := addressFlag(create, "owner", "address that funds the campaign")
	create.RunE = func(cmd *cobra.Command, args []string) error {
		caller, err := from()
		if err != nil {
			return err
		}
		owner, err := ownerFlag()
		if err != nil {
			return err
		}
		amount, err := parseAmount(reward)
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			id, err := a.engine.CreateCampaign(cmd.Context(), caller, owner, label, solves, amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		})
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "print the campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCampaignID(args[0])
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				c, err := a.engine.Campaign(id)
				if err != nil {
					return err
				}
				printCampaign(cmd, c)
				return nil
			})
		},
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "list active campaigns in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if all {
					campaigns, err := a.ledger.All(a.db)
					if err != nil {
						return err
					}
					for _, c := range campaigns {
						printCampaign(cmd, c)
					}
					return nil
				}
				ids, err := a.engine.ActiveCampaigns()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include depleted campaigns")

	cmd.AddCommand(create, get, list)
	return cmd
}

func printCampaign(cmd *cobra.Command, c *types.Campaign) {
	fmt.Fprintf(cmd.OutOrStdout(), "id = %s\nowner = %s\nlabel = %s\nsolves = %d\nreward = %s\n",
		c.ID, c.Owner.Hex(), c.Label, c.SolvesRemaining, c.Reward.Dec())
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "token", Short: "manage the reward token ledger"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "mint <account> <amount>",
			Short: "credit tokens to the account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				account, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				amount, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return withApp(func(a *app) error {
					return a.bank.Mint(a.db, account, amount)
				})
			},
		},
		&cobra.Command{
			Use:   "balance <account>",
			Short: "print the balance of the account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				account, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				return withApp(func(a *app) error {
					balance, err := a.bank.BalanceOf(a.db, account)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), balance.Dec())
					return nil
				})
			},
		},
	)

	approve := &cobra.Command{
		Use:   "approve <spender> <amount>",
		Short: "allow spender to move tokens of the caller, use the pool as spender to fund campaigns",
		Args:  cobra.ExactArgs(2),
	}
	from := addressFlag(approve, "from", "address of the token owner")
	approve.RunE = func(cmd *cobra.Command, args []string) error {
		owner, err := from()
		if err != nil {
			return err
		}
		spender, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			return a.bank.Approve(a.db, owner, spender, amount)
		})
	}
	cmd.AddCommand(approve)
	return cmd
}

func keygenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate a signer key and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := signing.NewEcdsaSigner(signing.ToFile(out))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.Address().Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "signer.key", "where to write the key")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "expose metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return withApp(func(a *app) error {
				if !a.cfg.CollectMetrics {
					return fmt.Errorf("metrics are disabled, enable with --metrics")
				}
				if err := a.Lock(); err != nil {
					return err
				}
				eg, ctx := errgroup.WithContext(ctx)
				eg.Go(func() error {
					return metrics.NewServer(a.logger.Named("metrics"), a.cfg.MetricsPort).Run(ctx)
				})
				eg.Go(func() error {
					return reportCampaigns(ctx, a)
				})
				return eg.Wait()
			})
		},
	}
}

// reportCampaigns keeps the active campaigns gauge up to date.
func reportCampaigns(ctx context.Context, a *app) error {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		ids, err := a.engine.ActiveCampaigns()
		if err != nil {
			a.logger.Warn("failed to list active campaigns", zap.Error(err))
		} else {
			activeCampaigns.Set(float64(len(ids)))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

var activeCampaigns = metrics.NewGauge("active_campaigns", "campaign", "Number of campaigns that still pay", []string{}).
	WithLabelValues()
