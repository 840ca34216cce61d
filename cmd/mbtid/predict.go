package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mbtid/internal/predictor"
	"mbtid/pkg/types"
)

func newPredictCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "predict [message...]",
		Short: "Predict the personality type of a message and print it as JSON",
		Long:  "Predict joins its arguments into one message. With no arguments the message is read from stdin.",
		Example: "  mbtid predict --model-dir ./model \"I love long walks and quiet evenings\"\n" +
			"  echo 'hello' | mbtid predict",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			message := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				message = strings.TrimRight(string(b), "\r\n")
			}

			svc, err := newService(cfg, newLogger(cmd.ErrOrStderr(), cfg), nil)
			if err != nil {
				return err
			}
			defer svc.Close()
			res, err := svc.Predict(cmd.Context(), message)
			if err != nil {
				if predictor.IsInvalidInput(err) {
					return errors.New("message is required")
				}
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(types.PredictResponse{Message: res.Message, Prediction: res.Label})
		},
	}
}
