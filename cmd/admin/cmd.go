package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/betterthansis/unisis/internal/model"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	getenvFunc       = os.Getenv         // mockable

	errHelp = errors.New("help provided")
)

type migrator interface {
	Run(ctx context.Context) error
	Down(ctx context.Context) error
	Status(ctx context.Context) error
	Version(ctx context.Context) (int64, error)
}

type adminCreator interface {
	CreateAdmin(ctx context.Context, name, email, password string) (model.Person, error)
}

type commandLine struct {
	migrator migrator
	auth     adminCreator
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate [up|down|status|version]     - manage the database schema (default up)")
	fmt.Fprintln(cli.out, "  create-admin -name NAME -email EMAIL - create an admin account; the password is")
	fmt.Fprintln(cli.out, "                                         read from ADMIN_PASSWORD or prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cli.migrate(ctx, args[2:])
	case "create-admin":
		return cli.createAdmin(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "up":
		return cli.migrator.Run(ctx)
	case "down":
		return cli.migrator.Down(ctx)
	case "status":
		return cli.migrator.Status(ctx)
	case "version":
		version, err := cli.migrator.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "version %d\n", version)
		return nil
	default:
		return fmt.Errorf("%q: no such migrate command", command)
	}
}

func (cli *commandLine) createAdmin(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	name := cmd.String("name", "", "The admin's display name.")
	email := cmd.String("email", "", "The admin's login email.")
	if err := cmd.Parse(args); err != nil {
		return errHelp
	}
	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*email) == "" {
		cmd.Usage()
		return errHelp
	}

	pwd := getenvFunc("ADMIN_PASSWORD")
	if pwd == "" {
		fmt.Fprint(cli.out, "Enter password:")
		raw, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		pwd = string(raw)
	}
	if pwd == "" {
		cmd.Usage()
		return errHelp
	}

	p, err := cli.auth.CreateAdmin(ctx, *name, *email, pwd)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
			for _, f := range vErr.Fields {
				fmt.Fprintf(cli.out, "  %s: %s\n", f.Field, f.Error)
			}
		}
		return err
	}
	fmt.Fprintf(cli.out, "admin %q created with id %d\n", p.Email, p.ID)
	return nil
}
