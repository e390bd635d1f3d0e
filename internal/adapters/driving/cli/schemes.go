package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// Choices offered by the recommendation form.
var (
	genderOptions    = []string{"male", "female", "other"}
	casteOptions     = []string{"general", "sc", "st", "obc"}
	incomeOptions    = append([]string{"not-applicable"}, domain.IncomeRanges()...)
	yesNoOptions     = []string{"yes", "no"}
	maritalOptions   = []string{"married", "unmarried", "widowed", "divorced"}
	religionOptions  = []string{"hindu", "muslim", "christian", "sikh", "buddhist", "jain", "other"}
	educationOptions = []string{"none", "10th-pass", "12th-pass", "graduate-plus"}
)

var (
	schemeProfile domain.SchemeProfile
	schemeJSON    bool
)

var schemesCmd = &cobra.Command{
	Use:         "schemes",
	Short:       "Government scheme recommendations",
	Annotations: protected(),
}

var schemesRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Find government schemes that match your profile",
	Long: `Find government schemes that match your profile.

Pass your details as flags, or run without --age in a terminal to fill in
the form interactively. Occupation takes comma separated keywords.`,
	Example: `  vfw schemes recommend
  vfw schemes recommend --age 34 --gender female --caste obc \
    --income below-27000 --occupation "farmer, fpo" --state Maharashtra`,
	Args: cobra.NoArgs,
	RunE: runSchemesRecommend,
}

func init() {
	f := schemesRecommendCmd.Flags()
	f.StringVar(&schemeProfile.Age, "age", "", "age in years")
	f.StringVar(&schemeProfile.Gender, "gender", "", "male, female or other")
	f.StringVar(&schemeProfile.Caste, "caste", "", "general, sc, st or obc")
	f.StringVar(&schemeProfile.Income, "income", "", "below-27000, 27000-1lakh or above-1lakh")
	f.StringVar(&schemeProfile.Occupation, "occupation", "", "occupation keywords, comma separated")
	f.StringVar(&schemeProfile.Disability, "disability", "", "schemes requiring disability: yes or no")
	f.StringVar(&schemeProfile.MaritalStatus, "marital-status", "", "married, unmarried, widowed or divorced")
	f.StringVar(&schemeProfile.Religion, "religion", "", "religion")
	f.StringVar(&schemeProfile.State, "state", "", "state or union territory")
	f.StringVar(&schemeProfile.Education, "education", "", "none, 10th-pass, 12th-pass or graduate-plus")
	f.StringVar(&schemeProfile.MinorityStatus, "minority", "", "minority status: yes or no")
	f.StringVar(&schemeProfile.ForOrphans, "orphans", "", "schemes for orphans: yes or no")
	f.BoolVar(&schemeJSON, "json", false, "output recommendations as JSON")

	schemesCmd.AddCommand(schemesRecommendCmd)
	rootCmd.AddCommand(schemesCmd)
}

func runSchemesRecommend(cmd *cobra.Command, _ []string) error {
	if schemeService == nil {
		return errors.New("scheme service not configured")
	}
	defer func() { schemeProfile = domain.SchemeProfile{} }()

	profile := schemeProfile
	if profile.Age == "" {
		if err := askProfile(&profile); err != nil {
			return err
		}
	}

	recs, err := schemeService.Recommend(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("recommend schemes: %w", err)
	}

	if schemeJSON {
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal recommendations: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	printRecommendations(cmd, recs)
	return nil
}

// askProfile fills the form interactively.
func askProfile(p *domain.SchemeProfile) error {
	steps := []func() error{
		func() error { return promptInput(&p.Age, "Age:", "", true) },
		func() error { return promptSelect(&p.Gender, "Gender:", genderOptions) },
		func() error { return promptSelect(&p.Caste, "Caste category:", casteOptions) },
		func() error { return promptSelect(&p.Income, "Income:", incomeOptions) },
		func() error {
			return promptInput(&p.Occupation, "Occupation (keywords):", "e.g. farmer, fpo, entrepreneur", false)
		},
		func() error { return promptSelect(&p.Disability, "Disability required:", yesNoOptions) },
		func() error { return promptSelect(&p.MaritalStatus, "Marital status:", maritalOptions) },
		func() error { return promptSelect(&p.Religion, "Religion:", religionOptions) },
		func() error { return promptInput(&p.State, "State/UT:", "", false) },
		func() error { return promptSelect(&p.Education, "Education level required:", educationOptions) },
		func() error { return promptSelect(&p.MinorityStatus, "Minority status:", yesNoOptions) },
		func() error { return promptSelect(&p.ForOrphans, "For orphans:", yesNoOptions) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("read profile: %w", err)
		}
	}
	return nil
}

func printRecommendations(cmd *cobra.Command, recs []domain.SchemeRecommendation) {
	out := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(out, "No matching schemes found.")
		return
	}

	printSuccess(out, "Found %d matching schemes", len(recs))
	fmt.Fprintln(out)
	for i, rec := range recs {
		name := rec.Name()
		printBold(out, "%d. %s", i+1, name)

		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := rec[k]
			if v == nil || fmt.Sprint(v) == name {
				continue
			}
			fmt.Fprintf(out, "   %s: %v\n", k, v)
		}
		fmt.Fprintln(out)
	}
}
