// One-shot command-line entry point for the monitoring workflow.
// Exit code 0 means Success, 2 PartialFailure, 1 Failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/paweldywan/devops-test/internal/cloud"
	"github.com/paweldywan/devops-test/internal/domain"
	"github.com/paweldywan/devops-test/internal/engine"
	"github.com/paweldywan/devops-test/internal/report"
	"github.com/paweldywan/devops-test/internal/teardown"
	"github.com/paweldywan/devops-test/internal/verify"
)

func main() {
	var (
		resourceGroup = flag.String("resource-group", "", "resource group holding the application (required)")
		application   = flag.String("app", "", "application name (required)")
		region        = flag.String("region", "", "region code (default "+domain.DefaultRegion+")")
		email         = flag.String("email", "", "alert notification email (required)")
		retention     = flag.Int("retention-days", 0, "workspace log retention in days (default 30)")
		healthURL     = flag.String("health-url", "", "optional health endpoint probed after provisioning")
		tearOnPartial = flag.Bool("teardown-on-partial", false, "delete resources created by this run when it partially fails")
	)
	flag.Parse()

	req := domain.ProvisioningRequest{
		ResourceGroup:     *resourceGroup,
		Application:       *application,
		Region:            *region,
		NotificationEmail: *email,
		RetentionDays:     *retention,
		HealthCheckURL:    *healthURL,
	}

	ctx := context.Background()
	if err := req.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	regionCode := req.Region
	if regionCode == "" {
		regionCode = domain.DefaultRegion
	}
	api, err := cloud.NewAwsAPI(ctx, regionCode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	td := teardown.NewManager()
	prov := engine.NewProvisioner(api, nil, td, verify.NewChecker())
	runID := uuid.New().String()[:8]

	result, runErr := prov.Run(ctx, runID, req)
	if runErr != nil {
		log.Printf("Provisioning failed: %v", runErr)
	}

	fmt.Print(report.Format(result, appliedRules(result)))

	if result.Status == domain.StatusPartialFailure && *tearOnPartial {
		log.Printf("Tearing down %d resources created by run %s", td.StackSize(runID), runID)
		for _, r := range td.Run(ctx, runID) {
			log.Printf("  %s: %s", r.Description, r.Status)
		}
	}

	os.Exit(result.Status.ExitCode())
}

// appliedRules rebuilds the rule table for reporting from the result
func appliedRules(result *domain.ProvisioningResult) []domain.AlertRuleSpec {
	if len(result.AlertRuleIDs) == 0 {
		return nil
	}
	planID, appID, groupID := "", result.Request.Application, ""
	if result.ComputePlanID != nil {
		planID = *result.ComputePlanID
	}
	if result.NotificationGroupID != nil {
		groupID = *result.NotificationGroupID
	}
	return engine.BuildAlertRules(result.Request.Application, planID, appID, groupID)
}
