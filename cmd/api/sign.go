package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
)

// signWebhookCmd prints the X-Razorpay-Signature for a payload, for replaying
// webhooks against a local server.
func signWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-webhook [file]",
		Short: "Compute the webhook signature of a payload (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, _ := cmd.Flags().GetString("secret")
			if secret == "" {
				secret = os.Getenv("RAZORPAY_WEBHOOK_SECRET")
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set RAZORPAY_WEBHOOK_SECRET")
			}

			var body []byte
			var err error
			if len(args) == 1 {
				body, err = os.ReadFile(args[0])
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), gateway.Sign(body, secret))
			return nil
		},
	}

	cmd.Flags().StringP("secret", "s", "", "Webhook secret (defaults to RAZORPAY_WEBHOOK_SECRET)")

	return cmd
}
