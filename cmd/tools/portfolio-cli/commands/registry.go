// cmd/tools/portfolio-cli/commands/registry.go
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"portfolio-scoring-workers/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Maintain the activity registry file",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "configs/activity-registry.json", "path to registry file")

	cmd.AddCommand(
		newRegistryValidateCmd(&path),
		newRegistryAddCmd(&path),
		newRegistryUpdateCmd(&path),
	)
	return cmd
}

func newRegistryValidateCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}
}

func newRegistryAddCmd(path *string) *cobra.Command {
	activity := registry.Activity{}
	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Example: `  portfolio-cli registry add --id score-portfolio --display-name "Score Portfolio" \
    --description "Scores portfolio items" --category portfolio --task-type score-portfolio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				reg = &registry.ActivityRegistry{
					Version:     "1.0.0",
					LastUpdated: time.Now().UTC().Format(time.RFC3339),
					Activities:  []registry.Activity{},
				}
			}

			if activity.TaskType == "" {
				activity.TaskType = activity.ID
			}
			activity.ImplementationStatus = registry.Status(status)
			activity.Inputs = nonNil(activity.Inputs)
			activity.Outputs = nonNil(activity.Outputs)
			activity.ErrorCodes = nonNil(activity.ErrorCodes)
			activity.Workflows = nonNil(activity.Workflows)
			activity.Tags = nonNil(activity.Tags)

			if err := reg.Add(activity); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := registry.Save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", activity.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&activity.ID, "id", "", "activity id")
	f.StringVar(&activity.DisplayName, "display-name", "", "display name")
	f.StringVar(&activity.Description, "description", "", "description")
	f.StringVar(&activity.Category, "category", "", "category (portfolio, leads)")
	f.StringVar(&activity.TaskType, "task-type", "", "Zeebe task type, defaults to the id")
	f.StringVar(&activity.Version, "version", "1.0.0", "version")
	f.StringVar(&status, "status", string(registry.StatusPlanned), "implementation status (planned, in-progress, completed, verified)")
	f.StringSliceVar(&activity.Inputs, "inputs", nil, "process variables the worker reads")
	f.StringSliceVar(&activity.Outputs, "outputs", nil, "process variables the worker writes")
	f.StringSliceVar(&activity.ErrorCodes, "error-codes", nil, "BPMN error codes the worker can throw")
	f.StringSliceVar(&activity.Workflows, "workflows", nil, "BPMN processes that use the worker")
	f.StringVar(&activity.Timeout, "timeout", "30s", "job timeout")
	f.IntVar(&activity.Retries, "retries", 3, "job retries")
	for _, name := range []string{"id", "display-name", "description", "category"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newRegistryUpdateCmd(path *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update a single field of an existing activity",
		Example: "  portfolio-cli registry update --id crm-lead-sync --field status --value verified",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(id, field, value); err != nil {
				return err
			}
			if err := registry.Save(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "activity id to update")
	cmd.Flags().StringVar(&field, "field", "", "field to update (status, version, displayName, description, category, taskType, timeout, retries)")
	cmd.Flags().StringVar(&value, "value", "", "new value for the field")
	for _, name := range []string{"id", "field", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
