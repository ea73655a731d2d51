package notify

import "time"

// MaxBackoff tope de espera entre reconexiones.
const MaxBackoff = 30 * time.Second

// Backoff espera exponencial de los receptores de cambios: 2s, 4s, 8s, 16s y luego MaxBackoff.
// Reset vuelve al primer escalón cuando una suscripción queda establecida.
type Backoff struct {
	attempt int
}

// Next cuenta un intento fallido y devuelve cuánto esperar antes del siguiente.
func (b *Backoff) Next() time.Duration {
	b.attempt++
	d := time.Second << min(b.attempt, 5)
	if d > MaxBackoff {
		d = MaxBackoff
	}
	return d
}

// Reset olvida los intentos anteriores.
func (b *Backoff) Reset() { b.attempt = 0 }

// Attempt número de intentos fallidos desde el último Reset.
func (b *Backoff) Attempt() int { return b.attempt }
