package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores de almacenamiento. Permiten distinguir "no existe" de "la base de datos no responde".
var (
	ErrDriverUnavailable = errors.New("driver de base de datos no disponible")
	ErrConnectionFailure = errors.New("no se pudo conectar a la base de datos")
	ErrStatementFailure  = errors.New("sentencia SQL rechazada")
)

// IsStorageUnavailable indica si err proviene de la conexión (driver o red/credenciales)
// y no de la sentencia ni de los datos.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrDriverUnavailable) || errors.Is(err, ErrConnectionFailure)
}
