package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobalert/internal/secrets"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the Telegram bot token in the OS keychain",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the bot token (read from stdin)",
	RunE:  runTokenSet,
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored bot token",
	RunE:  runTokenDelete,
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenDeleteCmd)
	rootCmd.AddCommand(tokenCmd)
}

func tokenAccount() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Telegram.ChatID == 0 {
		return "", errors.New("telegram.chat_id must be set before storing a token")
	}
	return secrets.TokenAccount(cfg.Telegram.ChatID), nil
}

func runTokenSet(cmd *cobra.Command, _ []string) error {
	account, err := tokenAccount()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Bot token: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("empty token")
	}

	if err := secrets.SetTelegramToken(account, token); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "token stored for", account)
	return nil
}

func runTokenDelete(cmd *cobra.Command, _ []string) error {
	account, err := tokenAccount()
	if err != nil {
		return err
	}
	if err := secrets.DeleteTelegramToken(account); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "token removed for", account)
	return nil
}
