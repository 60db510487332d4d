package cloud

import (
	"testing"
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/paweldywan/devops-test/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSpec() domain.AlertRuleSpec {
	return domain.AlertRuleSpec{
		Name:                "app-y-cpu-high",
		ScopeKind:           domain.ScopePlan,
		ScopeResourceID:     "plan-1",
		Metric:              "CpuPercentage",
		Aggregation:         domain.AggregationAverage,
		Operator:            ">",
		Threshold:           80,
		Window:              5 * time.Minute,
		Frequency:           1 * time.Minute,
		Severity:            2,
		Description:         "Average CPU above 80% on the compute plan",
		NotificationGroupID: "arn:aws:sns:us-east-1:123456789012:app-y-alerts",
	}
}

func TestAlarmInputTranslation(t *testing.T) {
	input, err := alarmInput(baseSpec())
	require.NoError(t, err)

	assert.Equal(t, "app-y-cpu-high", *input.AlarmName)
	assert.Equal(t, "AWS/EC2", *input.Namespace)
	assert.Equal(t, "CPUUtilization", *input.MetricName)
	assert.Equal(t, cwtypes.StatisticAverage, input.Statistic)
	assert.Equal(t, cwtypes.ComparisonOperatorGreaterThanThreshold, input.ComparisonOperator)
	assert.Equal(t, float64(80), *input.Threshold)
	assert.True(t, *input.ActionsEnabled)
}

func TestAlarmInputTiming(t *testing.T) {
	input, err := alarmInput(baseSpec())
	require.NoError(t, err)

	// 1 minute frequency over a 5 minute window
	assert.Equal(t, int32(60), *input.Period)
	assert.Equal(t, int32(5), *input.EvaluationPeriods)
}

func TestAlarmInputPlanDimension(t *testing.T) {
	input, err := alarmInput(baseSpec())
	require.NoError(t, err)

	require.Len(t, input.Dimensions, 1)
	assert.Equal(t, "AutoScalingGroupName", *input.Dimensions[0].Name)
	assert.Equal(t, "plan-1", *input.Dimensions[0].Value)
}

func TestAlarmInputApplicationDimension(t *testing.T) {
	spec := baseSpec()
	spec.ScopeKind = domain.ScopeApplication
	spec.ScopeResourceID = "env-1"
	spec.Metric = "Http5xx"
	spec.Aggregation = domain.AggregationTotal
	spec.Threshold = 10
	spec.Severity = 1

	input, err := alarmInput(spec)
	require.NoError(t, err)

	require.Len(t, input.Dimensions, 1)
	assert.Equal(t, "EnvironmentName", *input.Dimensions[0].Name)
	assert.Equal(t, "env-1", *input.Dimensions[0].Value)
	assert.Equal(t, "AWS/ElasticBeanstalk", *input.Namespace)
	assert.Equal(t, "ApplicationRequests5xx", *input.MetricName)
	assert.Equal(t, cwtypes.StatisticSum, input.Statistic)
}

func TestAlarmInputSeverityInDescription(t *testing.T) {
	input, err := alarmInput(baseSpec())
	require.NoError(t, err)
	assert.Equal(t, "[P2] Average CPU above 80% on the compute plan", *input.AlarmDescription)

	spec := baseSpec()
	spec.Severity = 1
	input, err = alarmInput(spec)
	require.NoError(t, err)
	assert.Contains(t, *input.AlarmDescription, "[P1]")
}

func TestAlarmInputNotificationAction(t *testing.T) {
	input, err := alarmInput(baseSpec())
	require.NoError(t, err)
	assert.Equal(t, []string{"arn:aws:sns:us-east-1:123456789012:app-y-alerts"}, input.AlarmActions)

	spec := baseSpec()
	spec.NotificationGroupID = ""
	input, err = alarmInput(spec)
	require.NoError(t, err)
	assert.Empty(t, input.AlarmActions)
}

func TestAlarmInputComparisonOperators(t *testing.T) {
	cases := map[string]cwtypes.ComparisonOperator{
		">":  cwtypes.ComparisonOperatorGreaterThanThreshold,
		">=": cwtypes.ComparisonOperatorGreaterThanOrEqualToThreshold,
		"<":  cwtypes.ComparisonOperatorLessThanThreshold,
		"<=": cwtypes.ComparisonOperatorLessThanOrEqualToThreshold,
	}
	for op, want := range cases {
		spec := baseSpec()
		spec.Operator = op
		input, err := alarmInput(spec)
		require.NoError(t, err, op)
		assert.Equal(t, want, input.ComparisonOperator, op)
	}
}

func TestAlarmInputUnknownMetric(t *testing.T) {
	spec := baseSpec()
	spec.Metric = "DiskQueueDepth"
	_, err := alarmInput(spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "DiskQueueDepth")
}

func TestAlarmInputInvalidSpec(t *testing.T) {
	spec := baseSpec()
	spec.Window = 30 * time.Second
	_, err := alarmInput(spec)
	assert.Error(t, err)
}
