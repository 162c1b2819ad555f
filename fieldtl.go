// Package fieldtl translates CMS field values while preserving their shape.
//
// A field value may be a plain string, HTML, Markdown, an SEO object, a
// slug, structured text or rich text. The Engine walks the value, sends
// every translatable string to a Backend one at a time and rebuilds the
// value around the translations. Identifier fields of structured and rich
// text are not reproduced; Result.Original keeps them for the caller.
//
// Basic usage:
//
//	engine := fieldtl.NewEngine(
//	    fieldtl.WithBackend(fieldtl.ServiceDeepL, provider.NewDeepL(provider.DeepLConfig{
//	        APIKey: os.Getenv("DEEPL_API_KEY"),
//	    })),
//	    fieldtl.WithCodec(codec.NewHTML()),
//	)
//
//	res, err := engine.Translate(ctx, "<p>Hello World</p>", fieldtl.TranslationOptions{
//	    SourceLocale: "en",
//	    TargetLocale: "de",
//	    Format:       fieldtl.FormatHTML,
//	    Service:      fieldtl.ServiceDeepL,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Value) // <p>Hallo Welt</p>
package fieldtl
