package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"popupkit/jokebox/internal/handler"
	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/service"
)

func newJokeCmd(configPath *string) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "joke",
		Short: "Print one random joke",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := model.ParseMode(mode)
			if !ok {
				return fmt.Errorf("mode must be one of safe, unsafe, mixed")
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			joke, err := a.jokeProvider.GetJoke(cmd.Context(), m)
			switch {
			case errors.Is(err, service.ErrJokeNotFound):
				fmt.Fprintln(cmd.OutOrStdout(), handler.MsgNoJokesForMode)
				return nil
			case err != nil:
				return errors.New(handler.MsgJokesUnavailable)
			}

			fmt.Fprintln(cmd.OutOrStdout(), handler.JokeText(joke))
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(model.ModeMixed), "safe, unsafe or mixed")
	return cmd
}
