package blogs

import "testing"

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned upload",
			url:  "https://res.cloudinary.com/demo/image/upload/v1716200000/prapti-foundation-images/dog.jpg",
			want: "prapti-foundation-images/dog",
		},
		{
			name: "no version",
			url:  "https://res.cloudinary.com/demo/image/upload/prapti-foundation-images/dog.png",
			want: "prapti-foundation-images/dog",
		},
		{
			name: "with transformation",
			url:  "https://res.cloudinary.com/demo/image/upload/w_1200,c_limit/v99/prapti-foundation-images/dog.webp",
			want: "prapti-foundation-images/dog",
		},
		{
			name: "nested folders",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/a/b/c.jpg",
			want: "a/b/c",
		},
		{
			name: "not a cloudinary url",
			url:  "https://example.com/images/dog.jpg",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPublicID(tc.url); got != tc.want {
				t.Fatalf("ExtractPublicID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
