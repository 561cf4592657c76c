package normalize

import "testing"

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips utm param",
			"https://x.com/job?id=1&utm_source=a",
			"https://x.com/job?id=1",
		},
		{
			"strips all utm variants",
			"https://x.com/job?utm_source=a&utm_medium=b&utm_campaign=c&id=9",
			"https://x.com/job?id=9",
		},
		{
			"strips click ids",
			"https://x.com/job?gclid=abc&fbclid=def&msclkid=ghi&id=1",
			"https://x.com/job?id=1",
		},
		{
			"strips lever origin",
			"https://jobs.lever.co/acme/123?lever-origin=applied&lever-source%5B%5D=LinkedIn",
			"https://jobs.lever.co/acme/123?lever-source%5B%5D=LinkedIn",
		},
		{
			"strips ref and from",
			"https://x.com/job?ref=hn&from=digest&id=1",
			"https://x.com/job?id=1",
		},
		{
			"removes query entirely when nothing survives",
			"https://x.com/job?utm_source=a&gclid=b",
			"https://x.com/job",
		},
		{
			"keeps unknown params in order",
			"https://x.com/job?b=2&a=1&utm_source=x&c=3",
			"https://x.com/job?b=2&a=1&c=3",
		},
		{
			"case-insensitive param match",
			"https://x.com/job?UTM_Source=a&id=1",
			"https://x.com/job?id=1",
		},
		{
			"no query string unchanged",
			"https://x.com/job",
			"https://x.com/job",
		},
		{
			"not a url unchanged",
			"not-a-url",
			"not-a-url",
		},
		{
			"malformed unchanged",
			"http://%zz?utm_source=a",
			"http://%zz?utm_source=a",
		},
		{
			"fragment preserved",
			"https://x.com/job?utm_source=a&id=1#apply",
			"https://x.com/job?id=1#apply",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(tt.in); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestURL_NoDropLeavesInputByteIdentical(t *testing.T) {
	// When nothing is stripped the input must come back untouched, even if
	// a round-trip through url.Parse would re-encode it differently.
	in := "https://x.com/job%2Fpath?id=a%20b&page=2"
	if got := URL(in); got != in {
		t.Errorf("URL(%q) = %q, want input unchanged", in, got)
	}
}
