package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/spf13/cobra"
)

// signCmd prints the signature the provider would send for a payment, for
// exercising verify-payment by hand.
func signCmd() *cobra.Command {
	var orderID, paymentID, secret string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Compute the payment signature for an order and payment id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("KEY_SECRET")
			}
			if secret == "" {
				return errors.New("no secret: pass --secret or set KEY_SECRET")
			}

			fmt.Fprintln(cmd.OutOrStdout(), domain.Sign(orderID, paymentID, secret))
			return nil
		},
	}

	cmd.Flags().StringVarP(&orderID, "order", "o", "", "Order id")
	cmd.Flags().StringVarP(&paymentID, "payment", "p", "", "Payment id")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to KEY_SECRET)")
	_ = cmd.MarkFlagRequired("order")
	_ = cmd.MarkFlagRequired("payment")

	return cmd
}
