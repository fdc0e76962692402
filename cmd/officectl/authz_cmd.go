package main

import (
	"github.com/spf13/cobra"

	"github.com/jacksonlee411/office-ops/pkg/authz"
)

type authzCheckOutput struct {
	Subject string   `json:"subject"`
	Object  string   `json:"object"`
	Action  string   `json:"action"`
	Allowed bool     `json:"allowed"`
	Matched []string `json:"matched_policy,omitempty"`
	Latency string   `json:"latency"`
}

func newAuthzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authz",
		Short: "Inspect the role policy",
	}
	cmd.AddCommand(newAuthzCheckCmd())
	return cmd
}

// newAuthzCheckCmd evaluates the policy in enforce mode regardless of
// AUTHZ_MODE so the answer reflects the policy file itself.
func newAuthzCheckCmd() *cobra.Command {
	var (
		role, object, action string
		modelPath, policy    string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show whether a role may perform an action",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := authz.NewService(authz.Config{
				ModelPath:    modelPath,
				PolicyPath:   policy,
				FlagProvider: authz.StaticFlags(authz.ModeEnforce),
			})
			if err != nil {
				return err
			}
			res, err := svc.Inspect(cmd.Context(), authz.NewRequest(authz.SubjectForRole(role), object, action))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), authzCheckOutput{
				Subject: res.Request.Subject,
				Object:  res.Request.Object,
				Action:  res.Request.Action,
				Allowed: res.Allowed,
				Matched: res.Trace,
				Latency: res.Latency.String(),
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "Role slug (admin, ga, procurement, user)")
	cmd.Flags().StringVar(&object, "object", "", "Policy object, e.g. requests")
	cmd.Flags().StringVar(&action, "action", "", "Policy action, e.g. approve")
	cmd.Flags().StringVar(&modelPath, "model", "", "Casbin model file (defaults to the embedded model)")
	cmd.Flags().StringVar(&policy, "policy", "", "Policy csv (defaults to the embedded policy)")
	_ = cmd.MarkFlagRequired("object")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}
