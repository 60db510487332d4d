package cloud

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/paweldywan/devops-test/internal/domain"
)

// cwMetric maps an abstract metric name to its CloudWatch namespace/metric
type cwMetric struct {
	Namespace string
	Metric    string
}

var metricMap = map[string]cwMetric{
	"CpuPercentage":    {Namespace: "AWS/EC2", Metric: "CPUUtilization"},
	"MemoryPercentage": {Namespace: "CWAgent", Metric: "mem_used_percent"},
	"Http5xx":          {Namespace: "AWS/ElasticBeanstalk", Metric: "ApplicationRequests5xx"},
	"HttpResponseTime": {Namespace: "AWS/ElasticBeanstalk", Metric: "ApplicationLatencyP90"},
}

// dimensionName maps the rule scope to the CloudWatch dimension carrying the
// scope identifier. Plan-scoped rules aggregate over the Auto Scaling group,
// application-scoped rules over the single environment.
func dimensionName(kind domain.AlertScope) string {
	if kind == domain.ScopePlan {
		return "AutoScalingGroupName"
	}
	return "EnvironmentName"
}

func statisticFor(agg domain.Aggregation) cwtypes.Statistic {
	if agg == domain.AggregationTotal {
		return cwtypes.StatisticSum
	}
	return cwtypes.StatisticAverage
}

func comparisonFor(operator string) cwtypes.ComparisonOperator {
	switch operator {
	case ">=":
		return cwtypes.ComparisonOperatorGreaterThanOrEqualToThreshold
	case "<":
		return cwtypes.ComparisonOperatorLessThanThreshold
	case "<=":
		return cwtypes.ComparisonOperatorLessThanOrEqualToThreshold
	default:
		return cwtypes.ComparisonOperatorGreaterThanThreshold
	}
}

// alarmInput translates an abstract alert rule into a PutMetricAlarm call.
// CloudWatch has no severity field; the ordinal rides in the description.
func alarmInput(spec domain.AlertRuleSpec) (*cloudwatch.PutMetricAlarmInput, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m, ok := metricMap[spec.Metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidRequest, spec.Metric)
	}

	period := int32(spec.Frequency.Seconds())
	evalPeriods := int32(spec.Window / spec.Frequency)

	input := &cloudwatch.PutMetricAlarmInput{
		AlarmName:          aws.String(spec.Name),
		AlarmDescription:   aws.String(fmt.Sprintf("[P%d] %s", spec.Severity, spec.Description)),
		Namespace:          aws.String(m.Namespace),
		MetricName:         aws.String(m.Metric),
		Statistic:          statisticFor(spec.Aggregation),
		ComparisonOperator: comparisonFor(spec.Operator),
		Threshold:          aws.Float64(spec.Threshold),
		Period:             aws.Int32(period),
		EvaluationPeriods:  aws.Int32(evalPeriods),
		ActionsEnabled:     aws.Bool(true),
		Dimensions: []cwtypes.Dimension{
			{
				Name:  aws.String(dimensionName(spec.ScopeKind)),
				Value: aws.String(spec.ScopeResourceID),
			},
		},
	}
	if spec.NotificationGroupID != "" {
		input.AlarmActions = []string{spec.NotificationGroupID}
	}
	return input, nil
}
