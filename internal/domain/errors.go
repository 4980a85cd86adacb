package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport - сетевая ошибка или неожиданный HTTP-статус.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse - неверный content-type, некорректный JSON/XML или неожиданная структура.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrOfflineRead - офлайн-документ отсутствует, недоступен или не разбирается.
	ErrOfflineRead = errors.New("offline read failure")

	ErrConfigUnavailable = errors.New("config unavailable")
	ErrNewsUnavailable   = errors.New("news unavailable")
)

const (
	ResourceConfig = "config"
	ResourceNews   = "news"
)

// UnavailableError возвращается, когда ни онлайн, ни офлайн источник не дали результата.
// Err содержит ошибку последней (офлайн) попытки.
type UnavailableError struct {
	Resource string
	Message  string
	Err      error
}

// NewUnavailableError создает ошибку недоступности ресурса с сообщением по умолчанию.
func NewUnavailableError(resource string, err error) *UnavailableError {
	return &UnavailableError{
		Resource: resource,
		Message:  fmt.Sprintf("Unable to load %s.json online or offline", resource),
		Err:      err,
	}
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is позволяет сравнивать ошибку с ErrConfigUnavailable и ErrNewsUnavailable.
func (e *UnavailableError) Is(target error) bool {
	switch target {
	case ErrConfigUnavailable:
		return e.Resource == ResourceConfig
	case ErrNewsUnavailable:
		return e.Resource == ResourceNews
	}
	return false
}
