package common

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
)

// BindMultipartForm fills dest, a pointer to struct, from a multipart request.
// Fields are matched by their `form` tag; *multipart.FileHeader and string fields are supported. A missing file leaves the field nil
// so callers decide whether the file is required.
func BindMultipartForm(r *http.Request, dest any, maxMemory int64) error {
	val := reflect.ValueOf(dest)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer to struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("dest must point to a struct")
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return err
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		tag := field.Tag.Get("form")
		if tag == "" {
			tag = field.Name
		}

		if field.Type == reflect.TypeOf((*multipart.FileHeader)(nil)) {
			_, header, err := r.FormFile(tag)
			if err != nil {
				if err != http.ErrMissingFile {
					return fmt.Errorf("field '%s' no exists : %v", tag, err)
				}
			} else {
				fieldVal.Set(reflect.ValueOf(header))
			}
			continue
		}

		values := r.MultipartForm.Value[tag]
		if len(values) == 0 {
			continue
		}

		if fieldVal.Kind() == reflect.String {
			fieldVal.SetString(values[0])
		}
	}

	return nil
}
