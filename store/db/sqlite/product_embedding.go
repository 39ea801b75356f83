package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// Vectors are stored as BLOBs (little-endian float32 arrays) and similarity is
// computed in the application layer. Postgres with pgvector does this in the
// database instead.

// float32ArrayToBLOB converts a []float32 to its BLOB representation. It
// validates that the vector has the expected dimension.
func float32ArrayToBLOB(vec []float32) ([]byte, error) {
	if len(vec) != store.EmbeddingDim {
		return nil, errors.Errorf("invalid vector dimension: got %d, want %d", len(vec), store.EmbeddingDim)
	}

	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf, nil
}

// blobToFloat32Array converts a BLOB back to a float32 array. This is the
// inverse of float32ArrayToBLOB.
func blobToFloat32Array(blob []byte) ([]float32, error) {
	expectedLen := store.EmbeddingDim * 4
	if len(blob) != expectedLen {
		return nil, errors.Errorf("invalid BLOB length: got %d, want %d", len(blob), expectedLen)
	}

	vec := make([]float32, store.EmbeddingDim)
	for i := 0; i < store.EmbeddingDim; i++ {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}

// cosineDistance returns 1 - cosine similarity, matching the pgvector <=>
// operator. A zero-magnitude vector yields the maximum distance.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// UpsertProductEmbedding inserts or updates a product embedding.
func (d *DB) UpsertProductEmbedding(ctx context.Context, upsert *store.ProductEmbedding) error {
	vectorBLOB, err := float32ArrayToBLOB(upsert.Embedding)
	if err != nil {
		return errors.Wrap(err, "failed to convert embedding vector to BLOB")
	}

	now := time.Now().Unix()
	stmt := `
		INSERT INTO product_embedding (product_id, embedding, category, subcategory, model, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET
			embedding = excluded.embedding,
			category = excluded.category,
			subcategory = excluded.subcategory,
			model = excluded.model,
			updated_ts = excluded.updated_ts
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ProductID, vectorBLOB, upsert.Category, upsert.Subcategory, upsert.Model, now, now,
	); err != nil {
		return errors.Wrap(err, "failed to upsert product embedding")
	}
	return nil
}

// SearchProductEmbeddings performs vector similarity search. The category
// filter is pushed into SQL; the distance computation and ranking happen in
// the application layer.
func (d *DB) SearchProductEmbeddings(ctx context.Context, opts *store.SearchProductEmbeddingsOptions) ([]*store.ProductDistance, error) {
	where, args := []string{"1 = 1"}, []any{}

	if opts.Category != nil {
		if opts.SameCategory {
			where = append(where, "category = ?")
		} else {
			where = append(where, "category <> ?")
		}
		args = append(args, *opts.Category)
	}

	query := `
		SELECT product_id, embedding
		FROM product_embedding
		WHERE ` + strings.Join(where, " AND ")

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search product embeddings")
	}
	defer rows.Close()

	results := []*store.ProductDistance{}
	for rows.Next() {
		var productID int32
		var blob []byte
		if err := rows.Scan(&productID, &blob); err != nil {
			return nil, errors.Wrap(err, "failed to scan product embedding")
		}

		vec, err := blobToFloat32Array(blob)
		if err != nil || len(vec) != len(opts.Vector) {
			// Skip rows written with a different model dimension.
			continue
		}
		results = append(results, &store.ProductDistance{
			ProductID: productID,
			Distance:  cosineDistance(opts.Vector, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}
