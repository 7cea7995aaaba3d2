package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"signup-service/internal/config"
	"signup-service/internal/form"
	"signup-service/internal/validation"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout io.Writer) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", cfg.Form.APIURL, "API base URL")
	verbose := fs.Bool("v", false, "Log request failures to stderr")
	fs.Parse(args)

	reader := bufio.NewReader(stdin)
	in := form.Input{Name: *name, Email: *email, Password: *password}

	if in.Name == "" {
		if in.Name, err = prompt(reader, stdout, "Name: "); err != nil {
			return err
		}
	}
	if in.Email == "" {
		if in.Email, err = prompt(reader, stdout, "Email: "); err != nil {
			return err
		}
	}
	if in.Password == "" {
		if in.Password, err = promptSecret(reader, stdin, stdout); err != nil {
			return err
		}
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if *verbose {
		logger.SetOutput(os.Stderr)
	}

	client, err := form.New(*apiBase, form.WithLogger(logger))
	if err != nil {
		return err
	}

	res := client.Submit(context.Background(), in)
	if len(res.FieldErrors) > 0 {
		for _, rule := range validation.Rules {
			if msg, ok := res.FieldErrors[rule.Field]; ok {
				fmt.Fprintf(stdout, "%s: %s\n", rule.Field, msg)
			}
		}
		return errors.New("registration form is invalid")
	}

	fmt.Fprintln(stdout, res.Alert)
	if !res.Success {
		return errors.New("registration failed")
	}
	return nil
}

func prompt(reader *bufio.Reader, stdout io.Writer, label string) (string, error) {
	fmt.Fprint(stdout, label)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads without echo on a terminal and falls back to a plain
// line read for piped input.
func promptSecret(reader *bufio.Reader, stdin *os.File, stdout io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(reader, stdout, "Password: ")
	}
	fmt.Fprint(stdout, "Password: ")
	bytes, err := term.ReadPassword(fd)
	fmt.Fprint(stdout, "\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytes), nil
}
