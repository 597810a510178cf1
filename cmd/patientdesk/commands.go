package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/patientdesk/patientdesk/internal/domain/patient"
	"github.com/patientdesk/patientdesk/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal desk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
}

func runTUI(cmd *cobra.Command) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(commandContext(cmd), a.session())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the patients table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "patients table ready (%s)\n", a.handle.Driver)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every patient in id order",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			patients, err := a.svc.List(commandContext(cmd))
			if err != nil {
				return err
			}
			return printPatients(cmd.OutOrStdout(), patients)
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find patients whose name or code contains keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			patients, err := a.svc.Search(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printPatients(cmd.OutOrStdout(), patients)
		},
	}
}

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var p patient.Patient
			applyPatientFlags(cmd, &p)
			if err := a.svc.Create(commandContext(cmd), &p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added patient %d\n", p.ID)
			return nil
		},
	}
	addPatientFlags(cmd)
	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a patient; attributes without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			p, err := a.svc.Get(ctx, id)
			if err != nil {
				return err
			}
			applyPatientFlags(cmd, p)
			if err := a.svc.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated patient %d\n", p.ID)
			return nil
		},
	}
	addPatientFlags(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			p, err := a.svc.Get(ctx, id)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Delete patient %d (%s %s)? [y/N] ", p.ID, p.PatientCode, p.FullName))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
			}
			if err := a.svc.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted patient %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "delete without asking")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write patients to a spreadsheet (.xlsx or .csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)
			s := a.session()
			keyword, _ := cmd.Flags().GetString("search")
			if err := s.Search(ctx, keyword); err != nil {
				return err
			}
			path, err := s.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d patient(s) to %s\n", s.View().Len(), path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file (overrides EXPORT_PATH)")
	cmd.Flags().String("search", "", "only export patients matching this keyword")
	return cmd
}

// patientFlags maps flag names to the attribute they set.
var patientFlags = []struct {
	name  string
	usage string
	field func(p *patient.Patient) *string
}{
	{"code", "patient code", func(p *patient.Patient) *string { return &p.PatientCode }},
	{"name", "full name", func(p *patient.Patient) *string { return &p.FullName }},
	{"gender", "gender (Male, Female, Other)", func(p *patient.Patient) *string { return &p.Gender }},
	{"birth-date", "birth date", func(p *patient.Patient) *string { return &p.BirthDate }},
	{"phone", "phone number", func(p *patient.Patient) *string { return &p.Phone }},
	{"address", "address", func(p *patient.Patient) *string { return &p.Address }},
	{"diagnosis", "diagnosis", func(p *patient.Patient) *string { return &p.Diagnosis }},
	{"admission-date", "admission date", func(p *patient.Patient) *string { return &p.AdmissionDate }},
	{"note", "note", func(p *patient.Patient) *string { return &p.Note }},
}

func addPatientFlags(cmd *cobra.Command) {
	for _, f := range patientFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyPatientFlags sets only the attributes whose flag was given.
func applyPatientFlags(cmd *cobra.Command, p *patient.Patient) {
	for _, f := range patientFlags {
		if cmd.Flags().Changed(f.name) {
			v, _ := cmd.Flags().GetString(f.name)
			*f.field(p) = v
		}
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid patient id %q", s)
	}
	return id, nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func printPatients(w io.Writer, patients []*patient.Patient) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(patient.ColumnLabels, "\t"))
	for _, p := range patients {
		fmt.Fprintln(tw, strings.Join(p.Cells(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d patient(s)\n", len(patients))
	return nil
}
