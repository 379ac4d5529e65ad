// Package ddb provides repositories over the DynamoDB tables backing the
// tax document workflow: clients, document requirements and follow-up
// events.
package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/tax-document-portal/internal/models"
	"github.com/kylejryan/tax-document-portal/internal/status"
)

// AccountantIndex is the GSI on the clients table keyed by accountant_id.
const AccountantIndex = "accountant-index"

// Repo wraps a DynamoDB client and the table names for tax record
// operations. It satisfies status.Store.
type Repo struct {
	DB             *dynamodb.Client
	ClientsTable   string
	DocumentsTable string
	FollowupTable  string
}

var _ status.Store = (*Repo)(nil)

// GetClient fetches one client by ID. A missing item is status.ErrNotFound.
func (r *Repo) GetClient(ctx context.Context, clientID string) (*models.Client, error) {
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &r.ClientsTable,
		Key: map[string]types.AttributeValue{
			"client_id": &types.AttributeValueMemberS{Value: clientID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get client %s: %v", status.ErrUpstreamUnavailable, clientID, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("%w: %s", status.ErrNotFound, clientID)
	}
	var c models.Client
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal client %s: %w", clientID, err)
	}
	return &c, nil
}

// ListClients queries the accountant GSI for the full client roster.
func (r *Repo) ListClients(ctx context.Context, accountantID string) ([]models.Client, error) {
	var clients []models.Client
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
			TableName:              &r.ClientsTable,
			IndexName:              aws.String(AccountantIndex),
			KeyConditionExpression: aws.String("accountant_id = :aid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":aid": &types.AttributeValueMemberS{Value: accountantID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: query clients: %v", status.ErrUpstreamUnavailable, err)
		}
		var page []models.Client
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal clients: %w", err)
		}
		clients = append(clients, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return clients, nil
}

// ListRequirements returns every requirement row for a client and tax year,
// draining pagination so clients with many document rows are never
// under-counted.
func (r *Repo) ListRequirements(ctx context.Context, clientID string, taxYear int) ([]models.Requirement, error) {
	var reqs []models.Requirement
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
			TableName:              &r.DocumentsTable,
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: ClientPK(clientID)},
				":sk": &types.AttributeValueMemberS{Value: DocSKPrefix(taxYear)},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: query requirements for %s: %v", status.ErrUpstreamUnavailable, clientID, err)
		}
		var page []models.Requirement
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal requirements for %s: %w", clientID, err)
		}
		reqs = append(reqs, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return reqs, nil
}

// ListRecentFollowups returns the newest events first, at most limit. The
// follow-up ID is a ULID, so the sort key orders by send time.
func (r *Repo) ListRecentFollowups(ctx context.Context, clientID string, limit int) ([]models.FollowupEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:              &r.FollowupTable,
		KeyConditionExpression: aws.String("client_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: clientID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query follow-ups for %s: %v", status.ErrUpstreamUnavailable, clientID, err)
	}
	var events []models.FollowupEvent
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &events); err != nil {
		return nil, fmt.Errorf("unmarshal follow-ups for %s: %w", clientID, err)
	}
	return events, nil
}

// PutRequirement adds or overwrites a requirement row.
func (r *Repo) PutRequirement(ctx context.Context, req models.Requirement) error {
	req.PK = ClientPK(req.ClientID)
	req.SK = DocSK(req.TaxYear, req.DocumentType)
	if req.CreatedAt == "" {
		req.CreatedAt = models.NowISO()
	}
	req.LastUpdated = models.NowISO()
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.DocumentsTable,
		Item:      item,
	})
	return err
}

// DeleteRequirement removes a requirement row.
func (r *Repo) DeleteRequirement(ctx context.Context, clientID string, taxYear int, documentType string) error {
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &r.DocumentsTable,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ClientPK(clientID)},
			"SK": &types.AttributeValueMemberS{Value: DocSK(taxYear, documentType)},
		},
	})
	return err
}

// MarkReceived flips a requirement's received flag and records when and
// where the file landed. filePath may be empty when a previously received
// document goes missing again.
func (r *Repo) MarkReceived(ctx context.Context, clientID string, taxYear int, documentType string, received bool, filePath string) error {
	values := map[string]types.AttributeValue{
		":r":  &types.AttributeValueMemberBOOL{Value: received},
		":lu": &types.AttributeValueMemberS{Value: models.NowISO()},
	}
	expr := "SET received = :r, last_updated = :lu"
	if received {
		expr += ", received_date = :rd, file_path = :fp"
		values[":rd"] = &types.AttributeValueMemberS{Value: models.NowISO()}
		values[":fp"] = &types.AttributeValueMemberS{Value: filePath}
	}
	_, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &r.DocumentsTable,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ClientPK(clientID)},
			"SK": &types.AttributeValueMemberS{Value: DocSK(taxYear, documentType)},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: values,
	})
	return err
}

// PutFollowup appends one event to the follow-up log. The log is
// append-only; events are never updated once written.
func (r *Repo) PutFollowup(ctx context.Context, ev models.FollowupEvent) error {
	item, err := attributevalue.MarshalMap(ev)
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.FollowupTable,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(client_id) AND attribute_not_exists(followup_id)"),
	})
	return err
}

// SetUploadToken stores a freshly minted upload token on the client record.
func (r *Repo) SetUploadToken(ctx context.Context, clientID, token, expires string) error {
	_, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &r.ClientsTable,
		Key: map[string]types.AttributeValue{
			"client_id": &types.AttributeValueMemberS{Value: clientID},
		},
		UpdateExpression: aws.String("SET upload_token = :t, token_expires = :e, token_generated_at = :g"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
			":e": &types.AttributeValueMemberS{Value: expires},
			":g": &types.AttributeValueMemberS{Value: models.NowISO()},
		},
	})
	return err
}

// ClientPK constructs the documents-table partition key for a client.
func ClientPK(clientID string) string { return fmt.Sprintf("CLIENT#%s", clientID) }

// DocSK constructs the documents-table sort key. The tax year is part of
// the requirement's identity, so rows for different years never overwrite
// each other.
func DocSK(taxYear int, documentType string) string {
	return fmt.Sprintf("DOC#%d#%s", taxYear, documentType)
}

// DocSKPrefix is the sort-key prefix covering every document type of one
// tax year.
func DocSKPrefix(taxYear int) string { return fmt.Sprintf("DOC#%d#", taxYear) }
