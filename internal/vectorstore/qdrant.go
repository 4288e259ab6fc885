// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package vectorstore mirrors embedding snapshots into Qdrant so the catalog
// vectors can be queried by other services. The in-process index remains
// authoritative; the mirror is write-only from ReelMatch's point of view.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// SinkQdrant is the publisher name used in logs and metrics.
const SinkQdrant = "qdrant"

// defaultBatchSize bounds points per Upsert call.
const defaultBatchSize = 256

// pointNamespace scopes point IDs derived from catalog rows.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/tomtom215/reelmatch/points"))

// Config configures the Qdrant mirror.
type Config struct {
	Host       string
	Port       int
	Collection string
	BatchSize  int
}

// QdrantPublisher upserts every row of a snapshot as a Qdrant point and
// removes points left over from earlier catalog revisions.
type QdrantPublisher struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	batchSize   int
	logger      zerolog.Logger
}

// NewQdrantPublisher dials Qdrant over gRPC. The connection is lazy, so an
// unreachable server surfaces on the first Publish.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewQdrantPublisher(cfg Config, logger zerolog.Logger) (*QdrantPublisher, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is empty")
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}

	p := newPublisher(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), cfg, logger)
	p.conn = conn
	return p, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newPublisher(points pb.PointsClient, collections pb.CollectionsClient, cfg Config, logger zerolog.Logger) *QdrantPublisher {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &QdrantPublisher{
		points:      points,
		collections: collections,
		collection:  cfg.Collection,
		batchSize:   batch,
		logger:      logger.With().Str("component", "vectorstore").Str("collection", cfg.Collection).Logger(),
	}
}

// Name implements recommend.Publisher.
func (p *QdrantPublisher) Name() string { return SinkQdrant }

// Publish implements recommend.Publisher.
func (p *QdrantPublisher) Publish(ctx context.Context, snap *recommend.Snapshot) error {
	if snap.Len() == 0 {
		return p.clear(ctx, snap.Fingerprint())
	}
	if err := p.ensureCollection(ctx, snap.Dimensions()); err != nil {
		return err
	}

	cat := snap.Catalog()
	wait := true
	for start := 0; start < cat.Len(); start += p.batchSize {
		end := min(start+p.batchSize, cat.Len())

		points := make([]*pb.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			entry := cat.At(i)
			points = append(points, &pb.PointStruct{
				Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(i, entry.Title)}},
				Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: snap.Vector(i)}}},
				Payload: map[string]*pb.Value{
					"title":       {Kind: &pb.Value_StringValue{StringValue: entry.Title}},
					"description": {Kind: &pb.Value_StringValue{StringValue: entry.Description}},
					"row":         {Kind: &pb.Value_StringValue{StringValue: strconv.Itoa(i)}},
					"fingerprint": {Kind: &pb.Value_StringValue{StringValue: snap.Fingerprint()}},
				},
			})
		}

		if _, err := p.points.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: p.collection,
			Wait:           &wait,
			Points:         points,
		}); err != nil {
			return fmt.Errorf("qdrant upsert rows %d-%d: %w", start, end-1, err)
		}
	}

	if err := p.deleteStale(ctx, snap.Fingerprint()); err != nil {
		return err
	}

	p.logger.Info().Int("points", cat.Len()).Msg("snapshot mirrored")
	return nil
}

// clear empties an existing collection for an empty catalog. A missing
// collection is left missing, since its vector size is unknown.
func (p *QdrantPublisher) clear(ctx context.Context, fingerprint string) error {
	resp, err := p.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: p.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}
	if !resp.GetResult().GetExists() {
		return nil
	}
	if err := p.deleteStale(ctx, fingerprint); err != nil {
		return err
	}
	p.logger.Info().Msg("catalog is empty, mirror cleared")
	return nil
}

// Close releases the gRPC connection.
func (p *QdrantPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func (p *QdrantPublisher) ensureCollection(ctx context.Context, dims int) error {
	resp, err := p.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: p.collection})
	if err != nil {
		return fmt.Errorf("qdrant collection exists: %w", err)
	}
	if resp.GetResult().GetExists() {
		return nil
	}

	_, err = p.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: p.collection,
		VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{Params: &pb.VectorParams{
			Size:     uint64(dims), //nolint:gosec // dims is a positive vector length
			Distance: pb.Distance_Cosine,
		}}},
	})
	if err != nil {
		return fmt.Errorf("qdrant create collection: %w", err)
	}
	p.logger.Info().Int("dimensions", dims).Msg("collection created")
	return nil
}

// deleteStale removes points whose fingerprint differs from the current one.
func (p *QdrantPublisher) deleteStale(ctx context.Context, fingerprint string) error {
	wait := true
	_, err := p.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: p.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: &pb.Filter{
			MustNot: []*pb.Condition{{
				ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
					Key:   "fingerprint",
					Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: fingerprint}},
				}},
			}},
		}}},
	})
	if err != nil {
		return fmt.Errorf("qdrant delete stale points: %w", err)
	}
	return nil
}

// PointID derives a stable point UUID from a catalog row and title, so
// republishing an unchanged row overwrites its point in place.
func PointID(row int, title string) string {
	return uuid.NewSHA1(pointNamespace, []byte(strconv.Itoa(row)+"\x00"+title)).String()
}

var _ recommend.Publisher = (*QdrantPublisher)(nil)
