package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/auth"
	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/domain"
)

func newTokenCmd(c *cli) *cobra.Command {
	var subjectID, subjectType, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the SLA service",
		Long: `token signs a short-lived token with AUTH_JWT_SECRET and AUTH_JWT_ISSUER,
read from the environment or .env, so operators can call the /sla routes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			subject := domain.SubjectType(strings.ToUpper(subjectType))
			if subject != domain.SubjectTypeStaff && subject != domain.SubjectTypeUser {
				return fmt.Errorf("unknown subject type %q", subjectType)
			}

			var staffRole *domain.StaffRole
			if role != "" {
				roles, err := auth.ParseStaffRoles([]string{strings.ToUpper(role)})
				if err != nil {
					return err
				}
				staffRole = &roles[0]
			}

			token, expiresAt, err := auth.NewTokenManager(cfg.Auth).GenerateToken(subjectID, subject, staffRole)
			if err != nil {
				return err
			}
			c.logger.Debug("token issued",
				zap.String("subject_id", subjectID),
				zap.String("issuer", cfg.Auth.Issuer),
				zap.String("expires_at", expiresAt.Format(time.RFC3339)))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subjectID, "subject-id", "", "caller id placed in the sub claim")
	cmd.Flags().StringVar(&subjectType, "type", string(domain.SubjectTypeStaff), "subject type: STAFF or USER")
	cmd.Flags().StringVar(&role, "role", "", "staff role: AGENT, TEAM_LEAD or ADMIN")
	_ = cmd.MarkFlagRequired("subject-id")
	return cmd
}
