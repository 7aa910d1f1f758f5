package awsiam

import "github.com/aws/aws-sdk-go-v2/aws/arn"

// AccountNumber extracts the 12-digit account ID from an ARN.
func AccountNumber(resourceArn string) (string, error) {
	parsed, err := arn.Parse(resourceArn)
	if err != nil {
		return "", err
	}
	return parsed.AccountID, nil
}
