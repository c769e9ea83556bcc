// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/ligato/vtn-northbound/plugins/vtnrest/model"
	"github.com/ligato/vtn-northbound/plugins/vtnrest/service"
)

// InternalErrorMessage is the only text a client sees for a 500.
const InternalErrorMessage = "internal server error"

// MalformedPayloadError is a request body the decoder could not parse. The
// message is the decoder's own.
type MalformedPayloadError struct {
	Format Format
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	return e.Err.Error()
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// classify keeps validation failures as they are and turns anything else
// the decoder reports into a MalformedPayloadError.
func classify(format Format, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &MalformedPayloadError{Format: format, Err: err}
}

// StatusOf maps an error to the HTTP status reported for it.
func StatusOf(err error) int {
	var (
		verr        *model.ValidationError
		malformed   *MalformedPayloadError
		notFound    *service.NotFoundError
		unavailable *service.UnavailableError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
