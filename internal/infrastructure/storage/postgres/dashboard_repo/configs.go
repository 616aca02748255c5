package dashboard_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"marketops/internal/core/apperror"
	"marketops/internal/core/id"
	"marketops/internal/domain/dashboard"
	"marketops/internal/infrastructure/storage/postgres"
)

const configsTable = "sys_dashboard_configs"

// Saved configs above this size are stored zstd-compressed. Most configs
// are small; the threshold keeps the common path readable in psql.
const configCompressThreshold = 10 * 1024

// ConfigRepo implements dashboard.ConfigStore on sys_dashboard_configs.
type ConfigRepo struct {
	pool    *postgres.Pool
	builder squirrel.StatementBuilderType
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewConfigRepo creates a saved configuration store.
func NewConfigRepo(pool *postgres.Pool) (*ConfigRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ConfigRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder: encoder,
		decoder: decoder,
	}, nil
}

type savedConfigRow struct {
	ID               id.ID     `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	DataSource       string    `db:"data_source"`
	ConfigJSON       []byte    `db:"config_json"`
	ConfigCompressed []byte    `db:"config_compressed"`
	CompressionAlgo  string    `db:"compression_algo"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Save inserts a new saved configuration.
func (r *ConfigRepo) Save(ctx context.Context, cfg *dashboard.SavedConfig) error {
	raw, compressed, algo, err := r.encodeConfig(cfg.Config)
	if err != nil {
		return err
	}

	sqlText, args, err := r.builder.
		Insert(configsTable).
		Columns("id", "name", "description", "data_source",
			"config_json", "config_compressed", "compression_algo",
			"created_at", "updated_at").
		Values(cfg.ID, cfg.Name, cfg.Description, cfg.DataSource,
			raw, compressed, algo,
			cfg.CreatedAt, cfg.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert config: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sqlText, args...); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// Update replaces an existing saved configuration.
func (r *ConfigRepo) Update(ctx context.Context, cfg *dashboard.SavedConfig) error {
	raw, compressed, algo, err := r.encodeConfig(cfg.Config)
	if err != nil {
		return err
	}

	sqlText, args, err := r.builder.
		Update(configsTable).
		Set("name", cfg.Name).
		Set("description", cfg.Description).
		Set("data_source", cfg.DataSource).
		Set("config_json", raw).
		Set("config_compressed", compressed).
		Set("compression_algo", algo).
		Set("updated_at", cfg.UpdatedAt).
		Where(squirrel.Eq{"id": cfg.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update config: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sqlText, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("dashboard config", cfg.ID)
	}
	return nil
}

// Get loads one saved configuration by id.
func (r *ConfigRepo) Get(ctx context.Context, configID id.ID) (*dashboard.SavedConfig, error) {
	sqlText, args, err := r.builder.
		Select("id", "name", "description", "data_source",
			"config_json", "config_compressed", "compression_algo",
			"created_at", "updated_at").
		From(configsTable).
		Where(squirrel.Eq{"id": configID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select config: %w", err)
	}

	var row savedConfigRow
	if err := pgxscan.Get(ctx, r.pool, &row, sqlText, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("dashboard config", configID)
		}
		return nil, apperror.NewDatabase(err)
	}

	config, err := r.decodeConfig(row)
	if err != nil {
		return nil, err
	}

	return &dashboard.SavedConfig{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		DataSource:  row.DataSource,
		Config:      config,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// List returns saved configuration summaries, newest first, optionally
// scoped to one data source.
func (r *ConfigRepo) List(ctx context.Context, dataSource string) ([]dashboard.SavedConfigSummary, error) {
	qb := r.builder.
		Select("id", "name", "description", "data_source", "created_at", "updated_at").
		From(configsTable).
		OrderBy("updated_at DESC")
	if dataSource != "" {
		qb = qb.Where(squirrel.Eq{"data_source": dataSource})
	}

	sqlText, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list configs: %w", err)
	}

	var rows []savedConfigRow
	if err := pgxscan.Select(ctx, r.pool, &rows, sqlText, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	summaries := make([]dashboard.SavedConfigSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dashboard.SavedConfigSummary{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			DataSource:  row.DataSource,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return summaries, nil
}

// Delete removes a saved configuration.
func (r *ConfigRepo) Delete(ctx context.Context, configID id.ID) error {
	sqlText, args, err := r.builder.
		Delete(configsTable).
		Where(squirrel.Eq{"id": configID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete config: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sqlText, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("dashboard config", configID)
	}
	return nil
}

// encodeConfig marshals the config body and compresses it above the
// threshold. Exactly one of raw/compressed is non-nil.
func (r *ConfigRepo) encodeConfig(config dashboard.DashboardConfig) (raw, compressed []byte, algo string, err error) {
	raw, err = json.Marshal(config)
	if err != nil {
		return nil, nil, "", fmt.Errorf("marshal dashboard config: %w", err)
	}

	if len(raw) > configCompressThreshold {
		compressed = r.encoder.EncodeAll(raw, nil)
		return nil, compressed, string(postgres.CompressionZstd), nil
	}
	return raw, nil, string(postgres.CompressionNone), nil
}

func (r *ConfigRepo) decodeConfig(row savedConfigRow) (dashboard.DashboardConfig, error) {
	raw := row.ConfigJSON
	if row.CompressionAlgo == string(postgres.CompressionZstd) {
		decompressed, err := r.decoder.DecodeAll(row.ConfigCompressed, nil)
		if err != nil {
			return dashboard.DashboardConfig{}, fmt.Errorf("decompress dashboard config: %w", err)
		}
		raw = decompressed
	}

	var config dashboard.DashboardConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return dashboard.DashboardConfig{}, fmt.Errorf("unmarshal dashboard config: %w", err)
	}
	return config, nil
}
