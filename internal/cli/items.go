package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) newLsCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			ui.Panel(a.stdout, listLines(items, group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by importance")
	return cmd
}

func (a *app) newAddCmd() *cobra.Command {
	var (
		due        string
		importance int
	)
	cmd := &cobra.Command{
		Use:     "add <name...>",
		Short:   "Create an item",
		Example: `  tada add Buy milk --due 09/01/24 --importance 2`,
		Args:    minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return usagef("add: empty name")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			raw, err := c.Create(cmd.Context(), model.Item{ItemName: name, DueDate: due, ItemImportance: importance})
			if err != nil {
				return err
			}
			a.logger.Debug("item created", "response", string(raw))
			ui.OK(a.stdout, "added "+strconv.Quote(name))
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date, free text")
	cmd.Flags().IntVar(&importance, "importance", 0, "importance, higher is more urgent")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("show", args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			it, err := c.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			ui.Panel(a.stdout, detailLines(it))
			return nil
		},
	}
}

func (a *app) newUpdateCmd() *cobra.Command {
	var (
		name, due  string
		importance int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an item",
		Long: `Fetches the item, overrides the fields given as flags and sends the
whole item back.`,
		Example: `  tada update 3 --importance 5`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("update", args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if !f.Changed("name") && !f.Changed("due") && !f.Changed("importance") {
				return usagef("update: nothing to change (use --name, --due or --importance)")
			}
			if f.Changed("name") && strings.TrimSpace(name) == "" {
				return usagef("update: empty name")
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			it, err := c.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if f.Changed("name") {
				it.ItemName = strings.TrimSpace(name)
			}
			if f.Changed("due") {
				it.DueDate = due
			}
			if f.Changed("importance") {
				it.ItemImportance = importance
			}
			raw, err := c.Update(cmd.Context(), id, it)
			if err != nil {
				return err
			}
			a.logger.Debug("item updated", "id", id, "response", string(raw))
			ui.OK(a.stdout, fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().IntVar(&importance, "importance", 0, "new importance")
	return cmd
}

func (a *app) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"finish"},
		Short:   "Finish an item, removing it from the list",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("finished #%d", id))
			return nil
		},
	}
}

func (a *app) newStatCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Show item counts by importance",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			out, err := tui.RenderStats(items, width)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}

// -------------- rendering helpers --------------

func listLines(items []model.Item, group bool) []string {
	t := ui.Current()
	high := 0
	for _, it := range items {
		if ui.ImportanceLevel(it.ItemImportance) == "high" {
			high++
		}
	}
	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(t.Title, "Tasks"),
		ui.C(t.High, "!"), high,
		ui.C(t.Accent, "Total"), len(items),
	)

	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(high, len(items), 28)+" urgent"),
		"",
	}
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `tada add Buy milk --importance 2`"))
	return lines
}

func flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		meta := "!" + strconv.Itoa(it.ItemImportance)
		if it.DueDate != "" {
			meta = it.DueDate + "  " + meta
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			ui.C(t.Muted, fmt.Sprintf("%3d.", it.ItemID)),
			ui.C(t.ImportanceColor(it.ItemImportance), t.Bullet),
			ui.Truncate(it.ItemName, 60),
			ui.C(t.Muted, meta)))
	}
	return out
}

func groupLines(items []model.Item) []string {
	buckets := map[string][]model.Item{}
	for _, it := range items {
		lvl := ui.ImportanceLevel(it.ItemImportance)
		buckets[lvl] = append(buckets[lvl], it)
	}
	var lines []string
	for i, lvl := range []string{"high", "medium", "low"} {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(ui.Current().Accent, strings.ToUpper(lvl[:1])+lvl[1:]))
		if len(buckets[lvl]) == 0 {
			lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
			continue
		}
		lines = append(lines, flatLines(buckets[lvl])...)
	}
	return lines
}

func detailLines(it model.Item) []string {
	t := ui.Current()
	due := it.DueDate
	if due == "" {
		due = "-"
	}
	return []string{
		ui.C(t.Title, fmt.Sprintf("#%d %s", it.ItemID, it.ItemName)),
		"",
		ui.C(t.Muted, "due        ") + due,
		ui.C(t.Muted, "importance ") + ui.C(t.ImportanceColor(it.ItemImportance),
			fmt.Sprintf("%d (%s)", it.ItemImportance, ui.ImportanceLevel(it.ItemImportance))),
	}
}
