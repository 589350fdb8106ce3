package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/config"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/pipeline"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/render"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "eleot",
		Short: "Rubric-based evaluation of classroom observation narratives",
	}

	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newCatalogCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// evaluateFlags collects the UI-layer inputs for one evaluation.
type evaluateFlags struct {
	narrativeFile string
	lang          string
	envs          []string
	answersFile   string
	skipClarify   bool
	asJSON        bool

	teacher, subject, grade, segment, date string
}

func newEvaluateCmd() *cobra.Command {
	var f evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate an observation narrative against the rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.narrativeFile, "narrative", "", "path to the narrative text file (required)")
	cmd.Flags().StringVar(&f.lang, "lang", "en", "result language: ar or en")
	cmd.Flags().StringSliceVar(&f.envs, "env", catalog.EnvironmentIDs(), "environment ids to evaluate (A-G)")
	cmd.Flags().StringVar(&f.answersFile, "answers", "", "path to a key=value clarification answers file")
	cmd.Flags().BoolVar(&f.skipClarify, "skip-clarification", false, "evaluate even when clarification questions are pending")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit JSON instead of Markdown")
	cmd.Flags().StringVar(&f.teacher, "teacher", "", "teacher name")
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject")
	cmd.Flags().StringVar(&f.grade, "grade", "", "grade")
	cmd.Flags().StringVar(&f.segment, "segment", "", "lesson segment")
	cmd.Flags().StringVar(&f.date, "date", "", "visit date")
	_ = cmd.MarkFlagRequired("narrative")
	return cmd
}

func runEvaluate(cmd *cobra.Command, f evaluateFlags) error {
	narrative, err := os.ReadFile(f.narrativeFile)
	if err != nil {
		return fmt.Errorf("read narrative: %w", err)
	}
	answers, err := readAnswers(f.answersFile)
	if err != nil {
		return err
	}

	settings := config.FromEnv()
	p := pipeline.New(settings, newLogger(settings))

	result, err := p.Evaluate(cmd.Context(), pipeline.Request{
		Narrative:    string(narrative),
		Language:     schema.Language(f.lang),
		Environments: f.envs,
		Answers:      answers,
		Metadata: schema.Metadata{
			TeacherName: f.teacher,
			Subject:     f.subject,
			Grade:       f.grade,
			Segment:     f.segment,
			Date:        f.date,
		},
		SkipClarification: f.skipClarify,
	})

	var clarErr *pipeline.ClarificationRequired
	if errors.As(err, &clarErr) {
		fmt.Println("The narrative needs clarification before it can be scored:")
		for _, q := range clarErr.Questions {
			fmt.Printf("  %s: %s (%s)\n", q.Key, q.Prompt, strings.Join(q.Options, "/"))
		}
		fmt.Println("\nAnswer with --answers key=value file, or pass --skip-clarification.")
		return nil
	}
	if err != nil {
		return err
	}

	if f.asJSON {
		b, err := render.JSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	fmt.Print(render.Markdown(result))
	return nil
}

func newQuestionsCmd() *cobra.Command {
	var narrativeFile, lang string
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Show the clarification questions a narrative would trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			narrative, err := os.ReadFile(narrativeFile)
			if err != nil {
				return fmt.Errorf("read narrative: %w", err)
			}
			settings := config.FromEnv()
			p := pipeline.New(settings, newLogger(settings))
			qs := p.Questions(string(narrative), schema.Language(lang))
			if len(qs) == 0 {
				fmt.Println("No clarification needed.")
				return nil
			}
			for _, q := range qs {
				fmt.Printf("%s: %s (%s)\n", q.Key, q.Prompt, strings.Join(q.Options, "/"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&narrativeFile, "narrative", "", "path to the narrative text file (required)")
	cmd.Flags().StringVar(&lang, "lang", "en", "question language: ar or en")
	_ = cmd.MarkFlagRequired("narrative")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the rubric environments and criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := schema.Language(lang)
			for _, env := range catalog.Environments() {
				fmt.Printf("%s: %s\n", env.ID, env.Label(l))
				for _, c := range env.Criteria {
					fmt.Printf("  %s: %s\n", c.ID, c.Label(l))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "label language: ar or en")
	return cmd
}

// readAnswers parses a key=value-per-line clarification answers file.
func readAnswers(path string) ([]schema.ClarificationAnswer, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers []schema.ClarificationAnswer
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("answers: malformed line %q", line)
		}
		answers = append(answers, schema.ClarificationAnswer{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return answers, nil
}

// newLogger builds the structured logger from settings: text or JSON
// handler, leveled, writing to stderr so command output stays clean.
func newLogger(settings config.Settings) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(settings.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(settings.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
