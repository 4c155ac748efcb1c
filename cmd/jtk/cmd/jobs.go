package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/util"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse recommended job postings",
	Long: `Browse job postings recommended by the tracker.

Pass --apply <id> to turn a posting into a new application.`,
	RunE: runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().StringP("search", "s", "", "Filter by company or title")
	jobsCmd.Flags().BoolP("desc", "D", false, "Show job descriptions")
	jobsCmd.Flags().String("apply", "", "Create an application from the posting with this ID")
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	search, _ := cmd.Flags().GetString("search")
	showDesc, _ := cmd.Flags().GetBool("desc")
	applyID, _ := cmd.Flags().GetString("apply")

	jobs, err := client.Jobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}

	if applyID != "" {
		for _, j := range jobs {
			if j.ID != applyID {
				continue
			}
			a, err := client.CreateApplication(ctx, j.ApplicationInput())
			if err != nil {
				return err
			}
			fmt.Printf("✓ Added %s — %s (%s)\n", a.Company, a.Title, a.ID)
			return nil
		}
		return fmt.Errorf("no job with ID %s", applyID)
	}

	shown := core.FilterJobs(jobs, search)

	fmt.Println("🧭 Recommended jobs")
	fmt.Println(divider)
	if len(shown) == 0 {
		fmt.Println("No jobs match.")
		return nil
	}

	for i, j := range shown {
		if i > 0 {
			fmt.Println()
		}
		printJob(j, showDesc)
	}

	fmt.Println(divider)
	fmt.Println(core.CountLabel(len(shown), len(jobs)))
	return nil
}

func printJob(j core.Job, showDesc bool) {
	title := j.Title
	if j.JobLink != "" {
		title = util.MakeHyperlink(j.JobLink, j.Title)
	}
	fmt.Printf("  💼 %s\n", title)
	fmt.Printf("     🏢 %s\n", j.Company)

	var meta []string
	for _, v := range []string{j.Location, j.JobType, j.Salary} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		fmt.Printf("     %s\n", strings.Join(meta, " · "))
	}
	fmt.Printf("     🆔 %s\n", j.ID)

	if showDesc {
		if desc := util.HTMLToText(j.Description, 60); desc != "" {
			fmt.Println()
			for _, line := range strings.Split(util.Wrap(desc, 70), "\n") {
				fmt.Printf("     %s\n", line)
			}
		}
	}
}
