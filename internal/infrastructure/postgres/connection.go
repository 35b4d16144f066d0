package postgres

import (
	"context"
	"fmt"
	"sync"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/pkg/config"
	"github.com/jhoicas/sistema-facturacion/pkg/logger"
)

type connectFunc func(ctx context.Context, cfg *pgx.ConnConfig) (*pgx.Conn, error)

// ConnectionProvider administra una única conexión PostgreSQL compartida.
// Se abre en el primer uso, se reutiliza entre llamadas y se reabre si el driver la cerró.
// Solo se cierra con Close. El acceso se serializa: mientras un Rows o Row no se cierre
// (o escanee) la conexión queda tomada.
type ConnectionProvider struct {
	cfg     config.DBConfig
	log     *logger.Logger
	connect connectFunc

	mu   sync.Mutex
	conn *pgx.Conn
}

// NewConnectionProvider construye el proveedor sin abrir la conexión.
func NewConnectionProvider(cfg config.DBConfig, log *logger.Logger) *ConnectionProvider {
	return &ConnectionProvider{
		cfg:     cfg,
		log:     log.Component("postgres"),
		connect: pgx.ConnectConfig,
	}
}

// connLocked devuelve la conexión compartida, abriéndola si no existe o está cerrada.
// Requiere mu tomado; desde fuera del paquete la conexión solo se usa vía WithConn o Querier.
// Errores: domain.ErrDriverUnavailable si la configuración no es utilizable por el driver,
// domain.ErrConnectionFailure si falla la red o la autenticación.
func (p *ConnectionProvider) connLocked(ctx context.Context) (*pgx.Conn, error) {
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	p.conn = nil

	connCfg, err := pgx.ParseConfig(p.cfg.ConnectionString())
	if err != nil {
		p.log.Error().Err(err).
			Str("host", p.cfg.Host).
			Int("port", p.cfg.Port).
			Msg("configuración de conexión no aceptada por el driver")
		return nil, fmt.Errorf("%w: %w", domain.ErrDriverUnavailable, err)
	}

	conn, err := p.connect(ctx, connCfg)
	if err != nil {
		p.log.Error().Err(err).
			Str("host", connCfg.Host).
			Uint16("port", connCfg.Port).
			Str("database", connCfg.Database).
			Str("user", connCfg.User).
			Msg("error al conectar con PostgreSQL: verifique que el servidor esté encendido, las credenciales y que la base exista")
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectionFailure, err)
	}

	// NUMERIC/DECIMAL -> shopspring/decimal
	pgxdecimal.Register(conn.TypeMap())

	p.conn = conn
	p.log.Info().
		Str("host", connCfg.Host).
		Str("database", connCfg.Database).
		Msg("conexión exitosa a la base de datos")
	return conn, nil
}

// WithConn ejecuta fn con acceso exclusivo a la conexión compartida, abriéndola si hace falta.
// fn no debe retener conn después de volver.
func (p *ConnectionProvider) WithConn(ctx context.Context, fn func(conn *pgx.Conn) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	conn, err := p.connLocked(ctx)
	if err != nil {
		return err
	}
	return fn(conn)
}

// Ping verifica que la conexión esté viva (abriéndola si hace falta).
func (p *ConnectionProvider) Ping(ctx context.Context) error {
	return p.WithConn(ctx, func(conn *pgx.Conn) error {
		if err := conn.Ping(ctx); err != nil {
			return fmt.Errorf("%w: ping: %w", domain.ErrConnectionFailure, err)
		}
		return nil
	})
}

// Close cierra la conexión compartida. Es idempotente y seguro si nunca se abrió.
func (p *ConnectionProvider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	conn := p.conn
	p.conn = nil
	if conn.IsClosed() {
		return nil
	}
	if err := conn.Close(ctx); err != nil {
		p.log.Warn().Err(err).Msg("error al cerrar la conexión")
		return fmt.Errorf("close connection: %w", err)
	}
	p.log.Info().Msg("conexión cerrada correctamente")
	return nil
}

// Exec ejecuta una sentencia sobre la conexión compartida.
func (p *ConnectionProvider) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conn, err := p.connLocked(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, sql, args...)
}

// Query ejecuta una consulta; la conexión queda tomada hasta que se cierre el Rows devuelto.
func (p *ConnectionProvider) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.mu.Lock()
	conn, err := p.connLocked(ctx)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	return &lockedRows{Rows: rows, unlock: p.mu.Unlock}, nil
}

// QueryRow ejecuta una consulta de una fila; la conexión queda tomada hasta llamar Scan.
func (p *ConnectionProvider) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	p.mu.Lock()
	conn, err := p.connLocked(ctx)
	if err != nil {
		p.mu.Unlock()
		return errRow{err: err}
	}
	return &lockedRow{row: conn.QueryRow(ctx, sql, args...), unlock: p.mu.Unlock}
}

type lockedRows struct {
	pgx.Rows
	once   sync.Once
	unlock func()
}

func (r *lockedRows) Close() {
	r.Rows.Close()
	r.once.Do(r.unlock)
}

type lockedRow struct {
	row    pgx.Row
	once   sync.Once
	unlock func()
}

func (r *lockedRow) Scan(dest ...any) error {
	defer r.once.Do(r.unlock)
	return r.row.Scan(dest...)
}

// errRow reporta el error de conexión en el Scan, como hace pgx con sus propios errores.
type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
