package ledger

import "fmt"

// ValidationError: entrada malformada (cantidad no positiva, tipo de
// movimiento desconocido, carrito vacío...). Nada se persiste.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError: el producto referenciado no existe.
type NotFoundError struct {
	ProductID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("producto %d no encontrado", e.ProductID)
}

// InsufficientStockError: la salida dejaría las existencias en negativo.
// Lleva la identidad del producto para que el cajero vea cuál falló.
type InsufficientStockError struct {
	ProductID  uint
	Nombre     string
	Solicitado int
	Disponible int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s (solicitado %d, disponible %d)",
		e.Nombre, e.Solicitado, e.Disponible)
}
