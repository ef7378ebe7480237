package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uqgrd/uqgrd/internal/infrastructure/credentials"
)

func newCredentialsCmd() *cobra.Command {
	var insecure bool

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Store the portal login",
		Long: "Prompts for the UQAM portal code and password. The username goes to\n" +
			"a config file; the password goes to the OS keychain unless --insecure\n" +
			"puts it in the config file alongside the username.",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := promptCredentials()
			if err != nil {
				return err
			}

			store, err := credentials.NewStore()
			if err != nil {
				return err
			}
			if err := store.Save(username, password, insecure); err != nil {
				return err
			}

			fmt.Println("Credentials saved.")
			if insecure {
				fmt.Println("Warning: the password is stored in plain text in the config file.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&insecure, "insecure", false, "store the password in the config file instead of the OS keychain")

	return cmd
}

func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Code MS (ex. ab123456): ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Print("Mot de passe: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}

	return username, string(raw), nil
}
