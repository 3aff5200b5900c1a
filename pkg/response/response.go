package response

// JSON is the generic envelope for non-fres responses.
type JSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Error(code, message string, data any) JSON {
	return JSON{Code: code, Message: message, Data: data}
}

func Success(message string, data any) JSON {
	return JSON{Code: "OK", Message: message, Data: data}
}
