package vector

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type QdrantService struct {
	client *qdrant.Client
	col    string
	size   uint64
}

func NewQdrantService(host string, port int, collectionName string, apiKey string, vectorSize uint64) (*QdrantService, error) {
	config := &qdrant.Config{
		Host: host,
		Port: port,
	}

	if apiKey != "" {
		config.APIKey = apiKey
		config.UseTLS = false
	}

	if !config.UseTLS {
		config.GrpcOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		}
	}

	client, err := qdrant.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}

	svc := &QdrantService{client: client, col: collectionName, size: vectorSize}
	svc.ensureCollection()
	return svc, nil
}

func (s *QdrantService) ensureCollection() {
	ctx := context.Background()
	exists, err := s.client.CollectionExists(ctx, s.col)
	if err != nil {
		zap.L().Error("check qdrant collection failed", zap.Error(err))
		return
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.col,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.size,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			zap.L().Error("create qdrant collection failed", zap.Error(err))
		}
	}
}

// Upsert stores the vector of a todo under its id.
func (s *QdrantService) Upsert(ctx context.Context, todoID uint, vector []float32, ownerID uint) error {
	payload := map[string]*qdrant.Value{
		"user_id": {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(ownerID)}},
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.col,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(uint64(todoID)),
				Vectors: qdrant.NewVectors(vector...),
				Payload: payload,
			},
		},
	})
	return err
}

func (s *QdrantService) Delete(ctx context.Context, todoID uint) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.col,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDNum(uint64(todoID))),
	})
	return err
}

// Search returns todo ids ordered by similarity. Access filtering happens in
// the database, since collaborators are not part of the payload.
func (s *QdrantService) Search(ctx context.Context, vector []float32, limit uint64) ([]uint, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.col,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(res))
	for _, point := range res {
		if point.Id == nil {
			continue
		}
		if numID, ok := point.Id.PointIdOptions.(*qdrant.PointId_Num); ok {
			ids = append(ids, uint(numID.Num))
		}
	}
	return ids, nil
}

func (s *QdrantService) Close() error {
	return s.client.Close()
}
