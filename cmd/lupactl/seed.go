package main

import (
	"context"
	"fmt"

	"github.com/lupa-app/lupa/internal/question"
	"github.com/lupa-app/lupa/internal/repository"
	"github.com/lupa-app/lupa/pkg/model"
	"github.com/spf13/cobra"
)

var audiences []string

var seedCmd = &cobra.Command{
	Use:   "seed-questions",
	Short: "Insert the default person and company questions",
	Long: "Insert the default question sets. Rows already present at the same " +
		"audience and order are left alone, so the command can be rerun.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, log, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		defer log.Sync()

		n, err := seedQuestions(ctx, repository.NewRepository(pool), audiences)
		if err != nil {
			return err
		}
		log.Sugar().Infow("questions seeded", "inserted", n, "audiences", audiences)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&audiences, "audience",
		[]string{string(model.AudiencePerson), string(model.AudienceCompany)},
		"audiences to seed (person, company)")
	rootCmd.AddCommand(seedCmd)
}

type questionWriter interface {
	CreateQuestions(ctx context.Context, questions []model.Question) (int, error)
}

func seedQuestions(ctx context.Context, w questionWriter, audiences []string) (int, error) {
	var qs []model.Question
	for _, a := range audiences {
		defaults := question.Defaults(model.Audience(a))
		if len(defaults) == 0 {
			return 0, fmt.Errorf("no default questions for audience %q", a)
		}
		qs = append(qs, defaults...)
	}
	return w.CreateQuestions(ctx, qs)
}
