package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diogo/cryptointel-go/pkg/client"
	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:     "ping",
	Aliases: []string{"test"},
	Short:   "Check that the API is reachable",
	Long:    `Calls the API's diagnostic endpoint (GET /test) and prints its reply.`,
	Args:    cobra.NoArgs,
	PreRunE: requireValidConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		baseURL, err := apiBaseURL(cfg)
		if err != nil {
			return err
		}

		cli, err := client.New(client.Config{
			BaseURL:        baseURL,
			TimeoutSeconds: cfg.TimeoutSeconds,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer cli.Close()

		return runPing(ctx, cli)
	},
}

// pinger is satisfied by *client.Client.
type pinger interface {
	TestConnection(ctx context.Context) (*models.TestResponse, error)
}

func runPing(ctx context.Context, p pinger) error {
	stopSpinner := render.StartSpinner(spinnerInterval)
	resp, err := p.TestConnection(ctx)
	stopSpinner()

	if err != nil {
		render.RenderError(err)
		return errReported
	}

	render.RenderTestResponse(resp)
	return nil
}
