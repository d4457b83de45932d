package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// fakeDynamoClient records every request issued through the DynamoDBAPI
// interface and answers reads via per-test hook functions.
type fakeDynamoClient struct {
	putInputs      []*dynamodb.PutItemInput
	getInputs      []*dynamodb.GetItemInput
	updateInputs   []*dynamodb.UpdateItemInput
	deleteInputs   []*dynamodb.DeleteItemInput
	queryInputs    []*dynamodb.QueryInput
	scanInputs     []*dynamodb.ScanInput
	transactInputs []*dynamodb.TransactWriteItemsInput

	getFn   func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	queryFn func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	scanFn  func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)

	putErr      error
	updateErr   error
	deleteErr   error
	transactErr error
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.getInputs = append(f.getInputs, params)
	if f.getFn != nil {
		return f.getFn(params)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInputs = append(f.updateInputs, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deleteInputs = append(f.deleteInputs, params)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInputs = append(f.queryInputs, params)
	if f.queryFn != nil {
		return f.queryFn(params)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, params)
	if f.scanFn != nil {
		return f.scanFn(params)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactInputs = append(f.transactInputs, params)
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
