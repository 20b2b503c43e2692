package task

import "testing"

func validRequest() Request {
	return Request{
		Email:         "a@b.com",
		Secret:        "s3cret",
		Task:          "demo1",
		Round:         1,
		Nonce:         "abc",
		Brief:         "a counter app",
		Checks:        []string{"has a button"},
		EvaluationURL: "https://eval.example/cb",
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	r := validRequest()
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsBadRepoNames(t *testing.T) {
	for _, name := range []string{"", "has space", "slash/name", "percent%"} {
		r := validRequest()
		r.Task = name
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for task name %q", name)
		}
	}
	for _, name := range []string{"demo1", "my-app", "my_app", "v1.2"} {
		r := validRequest()
		r.Task = name
		if err := r.Validate(); err != nil {
			t.Fatalf("name %q should be valid: %v", name, err)
		}
	}
}

func TestValidateRejectsBadRounds(t *testing.T) {
	for _, round := range []int{0, -1} {
		r := validRequest()
		r.Round = round
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for round %d", round)
		}
	}
}

func TestValidateRejectsBadEvaluationURL(t *testing.T) {
	r := validRequest()
	r.EvaluationURL = ""
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for empty evaluation_url")
	}
	r.EvaluationURL = "not a url"
	if err := r.Validate(); err == nil {
		t.Fatalf("expected error for malformed evaluation_url")
	}
}
