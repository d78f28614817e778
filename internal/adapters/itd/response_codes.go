package itd

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lacarta/pos-gateway/internal/domain"
)

// parseFailureCode marks a body with no recognizable ResponseCode
const parseFailureCode = -1

// statusMessages reproduces the terminal's response-code table. 0/100 approve,
// 10 requires a re-query, 11 is waiting on the pinpad, 12 timed out, 101-113
// are field-validation rejections, 999/-100 are undetermined failures.
var statusMessages = map[int]string{
	0:    "Transaccion aprobada",
	100:  "Transaccion aprobada",
	10:   "Transaccion pendiente; consulte nuevamente",
	11:   "Esperando respuesta del pinpad",
	12:   "Tiempo de espera agotado; reenvie la transaccion",
	101:  "Pinpad invalido",
	102:  "Sucursal invalida",
	103:  "Cajero invalido",
	104:  "Fecha invalida",
	105:  "Importe invalido",
	106:  "Cuotas invalidas",
	107:  "Plan invalido",
	108:  "Factura invalida",
	109:  "Moneda invalida",
	110:  "Numero de ticket invalido",
	111:  "Transaccion inexistente",
	112:  "Transaccion ya finalizada",
	113:  "System Id invalido",
	999:  "Error indeterminado",
	-100: "Error indeterminado",
}

const defaultStatusMessage = "Formato en campo/s incorrecta; Faltan campos obligatorios"

// StatusMessage returns the operator-facing text for a terminal response code
func StatusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return defaultStatusMessage
}

// Classify maps a terminal response code onto the stable outcome taxonomy
func Classify(code int) domain.Classification {
	switch code {
	case 0, 100:
		return domain.ClassificationCompleted
	case 10, 11:
		return domain.ClassificationPending
	default:
		return domain.ClassificationError
	}
}

// responseCodeKeys lists the key spellings observed across terminal firmware
// versions, in probe order
var responseCodeKeys = []string{"ResponseCode", "responseCode", "Code", "code", "StatusCode"}

// Interpret parses a terminal response body and classifies it. It never fails:
// a body with no recognizable code yields an Error outcome with code -1 so a
// malformed response can never pass for success.
func Interpret(body []byte) *domain.GatewayOutcome {
	outcome := &domain.GatewayOutcome{
		ResponseCode:   parseFailureCode,
		Classification: domain.ClassificationError,
		RawBody:        string(body),
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		outcome.StatusMessage = StatusMessage(parseFailureCode)
		return outcome
	}

	if code, ok := extractCode(fields); ok {
		outcome.ResponseCode = code
		outcome.Classification = Classify(code)
	}
	outcome.StatusMessage = StatusMessage(outcome.ResponseCode)

	outcome.TransactionID, outcome.StringTransactionID = extractTransactionIDs(fields)
	outcome.RemainingExpirationTime = extractFloat(fields, "RemainingExpirationTime")

	return outcome
}

// extractCode probes the known key variants, accepting numeric and
// numeric-string encodings
func extractCode(fields map[string]interface{}) (int, bool) {
	for _, key := range responseCodeKeys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// extractTransactionIDs pulls TransactionId (number or string), falling back
// to STransactionId for the string form
func extractTransactionIDs(fields map[string]interface{}) (*int64, string) {
	var numeric *int64
	var str string

	switch t := fields["TransactionId"].(type) {
	case float64:
		n := int64(t)
		numeric = &n
	case string:
		str = t
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			numeric = &n
		}
	}

	if s, ok := fields["STransactionId"].(string); ok && s != "" {
		str = s
	}
	return numeric, str
}

func extractFloat(fields map[string]interface{}, key string) *float64 {
	switch t := fields[key].(type) {
	case float64:
		return &t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &f
		}
	}
	return nil
}
