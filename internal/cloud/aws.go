package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	xraytypes "github.com/aws/aws-sdk-go-v2/service/xray/types"
	"github.com/paweldywan/devops-test/internal/domain"
)

// AwsAPI implements the API contract against AWS. The target application is
// an Elastic Beanstalk environment; its Auto Scaling group is the compute
// plan. Resource identifiers are the provider-native addressing handles
// (log group name, X-Ray group name, SNS topic ARN, alarm name).
type AwsAPI struct {
	region string

	stsClient  *sts.Client
	logsClient *cloudwatchlogs.Client
	cwClient   *cloudwatch.Client
	snsClient  *sns.Client
	ebClient   *elasticbeanstalk.Client
	xrayClient *xray.Client

	accountID string
}

// NewAwsAPI creates an AwsAPI with the specified region
func NewAwsAPI(ctx context.Context, region string) (*AwsAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return &AwsAPI{
		region:     region,
		stsClient:  sts.NewFromConfig(cfg),
		logsClient: cloudwatchlogs.NewFromConfig(cfg),
		cwClient:   cloudwatch.NewFromConfig(cfg),
		snsClient:  sns.NewFromConfig(cfg),
		ebClient:   elasticbeanstalk.NewFromConfig(cfg),
		xrayClient: xray.NewFromConfig(cfg),
	}, nil
}

// CurrentAccount returns the caller identity, or nil when no credentials
// resolve to an account
func (a *AwsAPI) CurrentAccount(ctx context.Context) (*Account, error) {
	out, err := a.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("get caller identity: %w", err)
	}
	a.accountID = aws.ToString(out.Account)
	return &Account{
		ID:  aws.ToString(out.Account),
		ARN: aws.ToString(out.Arn),
	}, nil
}

// GetApplication resolves an Elastic Beanstalk environment. The resource
// group maps to the Beanstalk application, the name to the environment.
func (a *AwsAPI) GetApplication(ctx context.Context, resourceGroup, name string) (*Application, error) {
	envs, err := a.ebClient.DescribeEnvironments(ctx, &elasticbeanstalk.DescribeEnvironmentsInput{
		ApplicationName:  aws.String(resourceGroup),
		EnvironmentNames: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("describe environments: %w", err)
	}
	if len(envs.Environments) == 0 {
		return nil, nil
	}
	env := envs.Environments[0]

	res, err := a.ebClient.DescribeEnvironmentResources(ctx, &elasticbeanstalk.DescribeEnvironmentResourcesInput{
		EnvironmentName: env.EnvironmentName,
	})
	if err != nil {
		return nil, fmt.Errorf("describe environment resources: %w", err)
	}

	planID := ""
	if res.EnvironmentResources != nil && len(res.EnvironmentResources.AutoScalingGroups) > 0 {
		planID = aws.ToString(res.EnvironmentResources.AutoScalingGroups[0].Name)
	}

	return &Application{
		ID:     aws.ToString(env.EnvironmentName),
		Name:   aws.ToString(env.EnvironmentName),
		PlanID: planID,
		URL:    aws.ToString(env.CNAME),
	}, nil
}

// EnsureWorkspace finds or creates a CloudWatch Logs log group and applies
// the retention policy
func (a *AwsAPI) EnsureWorkspace(ctx context.Context, resourceGroup, name, region string, retentionDays int) (*Workspace, error) {
	found, err := a.logGroupExists(ctx, name)
	if err != nil {
		return nil, err
	}

	if !found {
		_, err := a.logsClient.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
			LogGroupName: aws.String(name),
			Tags:         map[string]string{"resource-group": resourceGroup},
		})
		if err != nil {
			return nil, fmt.Errorf("create log group: %w", err)
		}
		log.Printf("Created log group %s", name)
	}

	// Retention is create-or-replace; safe to apply on every run
	_, err = a.logsClient.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(name),
		RetentionInDays: aws.Int32(int32(retentionDays)),
	})
	if err != nil {
		return nil, fmt.Errorf("put retention policy: %w", err)
	}

	return &Workspace{ID: name, Name: name, Created: !found}, nil
}

func (a *AwsAPI) logGroupExists(ctx context.Context, name string) (bool, error) {
	out, err := a.logsClient.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: aws.String(name),
	})
	if err != nil {
		return false, fmt.Errorf("describe log groups: %w", err)
	}
	for _, lg := range out.LogGroups {
		if aws.ToString(lg.LogGroupName) == name {
			return true, nil
		}
	}
	return false, nil
}

// EnsureTelemetry finds or creates an X-Ray group. The group ARN doubles as
// the connection string the instrumented application reports into.
func (a *AwsAPI) EnsureTelemetry(ctx context.Context, resourceGroup, name, region, workspaceID string) (*Telemetry, error) {
	got, err := a.xrayClient.GetGroup(ctx, &xray.GetGroupInput{
		GroupName: aws.String(name),
	})
	if err != nil {
		if !telemetryNotFound(err) {
			return nil, fmt.Errorf("get telemetry group: %w", err)
		}
	} else if got.Group != nil {
		return &Telemetry{
			ID:               aws.ToString(got.Group.GroupName),
			Name:             aws.ToString(got.Group.GroupName),
			ConnectionString: aws.ToString(got.Group.GroupARN),
		}, nil
	}

	created, err := a.xrayClient.CreateGroup(ctx, &xray.CreateGroupInput{
		GroupName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("create telemetry group: %w", err)
	}
	log.Printf("Created telemetry group %s (workspace %s)", name, workspaceID)

	return &Telemetry{
		ID:               aws.ToString(created.Group.GroupName),
		Name:             aws.ToString(created.Group.GroupName),
		ConnectionString: aws.ToString(created.Group.GroupARN),
		Created:          true,
	}, nil
}

// telemetryNotFound reports whether err means the X-Ray group does not
// exist. GetGroup signals a missing group with InvalidRequestException;
// auth and throttle errors must not be mistaken for it.
func telemetryNotFound(err error) bool {
	var invalid *xraytypes.InvalidRequestException
	return errors.As(err, &invalid)
}

// SetApplicationConfig applies environment variables to the Beanstalk
// environment. This mutates the monitored application.
func (a *AwsAPI) SetApplicationConfig(ctx context.Context, appID string, settings map[string]string) error {
	options := make([]ebtypes.ConfigurationOptionSetting, 0, len(settings))
	for k, v := range settings {
		options = append(options, ebtypes.ConfigurationOptionSetting{
			Namespace:  aws.String("aws:elasticbeanstalk:application:environment"),
			OptionName: aws.String(k),
			Value:      aws.String(v),
		})
	}

	_, err := a.ebClient.UpdateEnvironment(ctx, &elasticbeanstalk.UpdateEnvironmentInput{
		EnvironmentName: aws.String(appID),
		OptionSettings:  options,
	})
	if err != nil {
		return fmt.Errorf("update environment config: %w", err)
	}
	log.Printf("Applied %d telemetry settings to %s", len(settings), appID)
	return nil
}

// EnsureNotificationGroup finds or creates an SNS topic with one email
// subscription
func (a *AwsAPI) EnsureNotificationGroup(ctx context.Context, resourceGroup, name, shortName, email string) (*NotificationGroup, error) {
	topicArn, err := a.topicArn(ctx, name)
	if err != nil {
		return nil, err
	}

	found := true
	_, err = a.snsClient.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
		TopicArn: aws.String(topicArn),
	})
	if err != nil {
		var nf *snstypes.NotFoundException
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("get topic attributes: %w", err)
		}
		found = false
	}

	if !found {
		out, err := a.snsClient.CreateTopic(ctx, &sns.CreateTopicInput{
			Name: aws.String(name),
			Tags: []snstypes.Tag{
				{Key: aws.String("resource-group"), Value: aws.String(resourceGroup)},
				{Key: aws.String("short-name"), Value: aws.String(shortName)},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create topic: %w", err)
		}
		topicArn = aws.ToString(out.TopicArn)
		log.Printf("Created notification topic %s", name)
	}

	if err := a.ensureEmailSubscription(ctx, topicArn, email); err != nil {
		return nil, err
	}

	return &NotificationGroup{ID: topicArn, Name: name, Created: !found}, nil
}

func (a *AwsAPI) ensureEmailSubscription(ctx context.Context, topicArn, email string) error {
	subs, err := a.snsClient.ListSubscriptionsByTopic(ctx, &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(topicArn),
	})
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	for _, s := range subs.Subscriptions {
		if aws.ToString(s.Protocol) == "email" && aws.ToString(s.Endpoint) == email {
			return nil
		}
	}

	_, err = a.snsClient.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(topicArn),
		Protocol: aws.String("email"),
		Endpoint: aws.String(email),
	})
	if err != nil {
		return fmt.Errorf("subscribe email: %w", err)
	}
	log.Printf("Subscribed %s to %s", email, topicArn)
	return nil
}

func (a *AwsAPI) topicArn(ctx context.Context, name string) (string, error) {
	if a.accountID == "" {
		out, err := a.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", fmt.Errorf("get caller identity: %w", err)
		}
		a.accountID = aws.ToString(out.Account)
	}
	return fmt.Sprintf("arn:aws:sns:%s:%s:%s", a.region, a.accountID, name), nil
}

// EnsureAlertRule creates or replaces a CloudWatch metric alarm
func (a *AwsAPI) EnsureAlertRule(ctx context.Context, spec domain.AlertRuleSpec) (*AlertRule, error) {
	existing, err := a.cwClient.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
		AlarmNames: []string{spec.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("describe alarms: %w", err)
	}
	found := len(existing.MetricAlarms) > 0

	input, err := alarmInput(spec)
	if err != nil {
		return nil, err
	}

	// PutMetricAlarm is create-or-replace, so re-runs converge on the desired rule
	if _, err := a.cwClient.PutMetricAlarm(ctx, input); err != nil {
		return nil, fmt.Errorf("put metric alarm: %w", err)
	}
	if !found {
		log.Printf("Created alarm %s (%s %s %.0f)", spec.Name, spec.Metric, spec.Operator, spec.Threshold)
	}

	return &AlertRule{ID: spec.Name, Name: spec.Name, Created: !found}, nil
}

// EnableDiagnostics turns on CloudWatch Logs streaming for the Beanstalk
// environment. The option settings call is create-or-replace; re-running it
// does not accumulate duplicate settings.
func (a *AwsAPI) EnableDiagnostics(ctx context.Context, appID, workspaceID string, logCategories []string, allMetrics bool) error {
	_, err := a.ebClient.UpdateEnvironment(ctx, &elasticbeanstalk.UpdateEnvironmentInput{
		EnvironmentName: aws.String(appID),
		OptionSettings: []ebtypes.ConfigurationOptionSetting{
			{
				Namespace:  aws.String("aws:elasticbeanstalk:cloudwatch:logs"),
				OptionName: aws.String("StreamLogs"),
				Value:      aws.String("true"),
			},
			{
				Namespace:  aws.String("aws:elasticbeanstalk:cloudwatch:logs"),
				OptionName: aws.String("DeleteOnTerminate"),
				Value:      aws.String("false"),
			},
			{
				Namespace:  aws.String("aws:elasticbeanstalk:cloudwatch:logs:health"),
				OptionName: aws.String("HealthStreamingEnabled"),
				Value:      aws.String("true"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("enable log streaming: %w", err)
	}
	log.Printf("Diagnostic forwarding enabled for %s -> %s (categories: %s, all metrics: %t)",
		appID, workspaceID, strings.Join(logCategories, ","), allMetrics)
	return nil
}

// DeleteWorkspace removes a log group created by this workflow
func (a *AwsAPI) DeleteWorkspace(ctx context.Context, id string) error {
	_, err := a.logsClient.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("delete log group: %w", err)
	}
	return nil
}

// DeleteTelemetry removes an X-Ray group created by this workflow
func (a *AwsAPI) DeleteTelemetry(ctx context.Context, id string) error {
	_, err := a.xrayClient.DeleteGroup(ctx, &xray.DeleteGroupInput{
		GroupName: aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("delete telemetry group: %w", err)
	}
	return nil
}

// DeleteNotificationGroup removes an SNS topic created by this workflow
func (a *AwsAPI) DeleteNotificationGroup(ctx context.Context, id string) error {
	_, err := a.snsClient.DeleteTopic(ctx, &sns.DeleteTopicInput{
		TopicArn: aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

// DeleteAlertRule removes an alarm created by this workflow
func (a *AwsAPI) DeleteAlertRule(ctx context.Context, id string) error {
	_, err := a.cwClient.DeleteAlarms(ctx, &cloudwatch.DeleteAlarmsInput{
		AlarmNames: []string{id},
	})
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	return nil
}
