package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeStorage, "save roll", cause)

	if !stderrors.Is(err, cause) {
		t.Error("Wrap() lost the cause chain")
	}
	if err.Error() != "save roll" {
		t.Errorf("Error() got %q, want internal message", err.Error())
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeMalformed, "bad expression"))

	if !IsCode(err, CodeMalformed) {
		t.Error("IsCode() did not match wrapped domain error")
	}
	if IsCode(err, CodeStorage) {
		t.Error("IsCode() matched the wrong code")
	}
	if GetCode(stderrors.New("plain")) != CodeUnknown {
		t.Error("GetCode() on plain error should be CodeUnknown")
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeCountRange, "count out of range", map[string]string{
		"Count": "900",
		"Max":   "500",
	})

	md := GetMetadata(fmt.Errorf("roll: %w", err))
	if md["Count"] != "900" {
		t.Errorf("GetMetadata() got %v", md)
	}
	if GetMetadata(stderrors.New("plain")) != nil {
		t.Error("GetMetadata() on plain error should be nil")
	}
}

func TestUserMessageFormatsMetadata(t *testing.T) {
	err := WithMetadata(CodeMalformed, "parse failed", map[string]string{
		"Expression": "not dice",
	})

	got := UserMessage(err, "")
	want := "Could not understand the roll expression not dice"
	if got != want {
		t.Errorf("UserMessage() got %q, want %q", got, want)
	}
}

func TestUserMessageUnknownError(t *testing.T) {
	got := UserMessage(stderrors.New("boom"), "en-US")
	if got != "an unexpected error occurred" {
		t.Errorf("UserMessage() got %q", got)
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeCountRange, "count out of range", map[string]string{
		"Count": "900",
		"Max":   "500",
	})

	st, ok := status.FromError(HandleError(err, "en-US"))
	if !ok {
		t.Fatal("HandleError() did not return a gRPC status")
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("status code got %v, want InvalidArgument", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	for _, d := range st.Details() {
		switch detail := d.(type) {
		case *errdetails.ErrorInfo:
			info = detail
		case *errdetails.LocalizedMessage:
			localized = detail
		}
	}
	if info == nil || info.Reason != string(CodeCountRange) || info.Domain != Domain {
		t.Errorf("ErrorInfo got %+v", info)
	}
	if localized == nil || localized.Message != "Dice count must be between 1 and 500, got 900" {
		t.Errorf("LocalizedMessage got %+v", localized)
	}
}

func TestHandleErrorUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(stderrors.New("boom"), ""))
	if !ok {
		t.Fatal("HandleError() did not return a gRPC status")
	}
	if st.Code() != codes.Internal {
		t.Errorf("status code got %v, want Internal", st.Code())
	}
}

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil, "en-US") != nil {
		t.Error("HandleError(nil) should be nil")
	}
}
