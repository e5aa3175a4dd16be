package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/logger"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

var (
	errMissingPassword = errors.New("please provide the password as an argument: phonebook-cli <password>")
	errArgumentFormat  = errors.New("please provide your arguments in the following format: phonebook-cli <password> <name> <number>")
)

type options struct {
	backend     string
	uri         string
	database    string
	keyPrefix   string
	uniqueNames bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "phonebook-cli <password> [<name> <number>]",
		Short: "List or add phonebook entries",
		Long: "With only a password, prints every entry as \"name number\". " +
			"With a name and a number as well, adds that entry.",
		Args:         checkArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			log := logger.NewLogger("error", false)

			store, closeStore, err := openStore(ctx, opts, args[0], &log)
			if err != nil {
				return err
			}
			defer closeStore()

			return run(ctx, cmd.OutOrStdout(), store, args[1:])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.backend, "backend", config.BackendMongo, "record store: mongo, postgres or redis")
	flags.StringVar(&opts.uri, "uri", "", "connection string; {password} is replaced by the password argument")
	flags.StringVar(&opts.database, "database", "phonebook", "mongo database name")
	flags.StringVar(&opts.keyPrefix, "key-prefix", "phonebook", "redis key prefix")
	flags.BoolVar(&opts.uniqueNames, "unique-names", true, "reject a name that is already in the phonebook")

	return cmd
}

func checkArgs(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errMissingPassword
	case 1, 3:
		return nil
	default:
		return errArgumentFormat
	}
}

// run lists the store when entry is empty and adds entry (name, number) otherwise.
func run(ctx context.Context, out io.Writer, store repository.PersonStore, entry []string) error {
	if len(entry) == 0 {
		persons, err := store.List(ctx)
		if err != nil {
			return err
		}
		for _, person := range persons {
			fmt.Fprintln(out, person.Name, person.Number)
		}
		return nil
	}

	person, err := store.Create(ctx, model.PersonFields{Name: entry[0], Number: entry[1]})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "added %s %s to the phonebook\n", person.Name, person.Number)
	return nil
}
