package notify

import (
	"strings"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// Message templates per workflow moment. Placeholders are filled from
// the order; statuses not listed here send nothing automatically.
const (
	templateReceived  = "Hola {cliente}, hemos recibido tu bicicleta {marca} {modelo}. Te contactaremos pronto con el diagnóstico."
	templateDiagnosed = "Hola {cliente}, el diagnóstico de tu {marca} {modelo} está listo: {diagnostico}"
	templateReady     = "¡Excelente! Tu {marca} {modelo} está lista para entrega. Puedes recogerla en horario de 8am-6pm."
)

// StatusMessage renders the automatic message for the order's current
// status. The second return is false when the status has no template.
func StatusMessage(order *domain.WorkOrder) (string, bool) {
	var tpl string
	switch order.Status {
	case domain.StatusReceived:
		tpl = templateReceived
	case domain.StatusDiagnosing:
		if order.Diagnosis == "" {
			return "", false
		}
		tpl = templateDiagnosed
	case domain.StatusFinished:
		tpl = templateReady
	default:
		return "", false
	}
	return fillTemplate(tpl, order), true
}

func fillTemplate(tpl string, order *domain.WorkOrder) string {
	r := strings.NewReplacer(
		"{cliente}", order.Customer.Name,
		"{marca}", order.Bicycle.Brand,
		"{modelo}", order.Bicycle.Model,
		"{diagnostico}", order.Diagnosis,
	)
	return r.Replace(tpl)
}
