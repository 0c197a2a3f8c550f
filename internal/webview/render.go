package webview

// HeaderOptions configures RenderHeader.
type HeaderOptions struct {
	Title              string
	ResolveResourceURI ResourceURIResolver
}

// NavBarOptions configures RenderNavBar.
type NavBarOptions struct {
	Title              string
	ResolveResourceURI ResourceURIResolver
	// HeaderButtons adds markup in front of the social buttons.
	HeaderButtons HTMLProducer
}

// FooterOptions configures RenderFooter. ScriptFile and StyleFile are base
// names: "board" loads js/board.js and css/board.css.
type FooterOptions struct {
	ResolveResourceURI ResourceURIResolver
	ScriptFile         string
	StyleFile          string
	Footer             HTMLProducer
}

// DocumentOptions configures RenderDocument. Name is the script and style
// base name of the document.
type DocumentOptions struct {
	Name               string
	Title              string
	ResolveResourceURI ResourceURIResolver
	Content            HTMLProducer
	Footer             HTMLProducer
	HeaderButtons      HTMLProducer
}

// RenderHeader renders everything from the doctype up to the opening body tag.
func RenderHeader(opts HeaderOptions) (string, error) {
	if opts.ResolveResourceURI == nil {
		return "", ErrNoResolver
	}
	return execute(headerTpl, page{
		Title:   FormatTitle(opts.Title),
		resolve: opts.ResolveResourceURI,
	})
}

// RenderNavBar renders the fixed navigation bar.
func RenderNavBar(opts NavBarOptions) (string, error) {
	if opts.ResolveResourceURI == nil {
		return "", ErrNoResolver
	}
	return execute(navBarTpl, page{
		Title:   FormatTitle(opts.Title),
		Buttons: opts.HeaderButtons.markup(),
		resolve: opts.ResolveResourceURI,
	})
}

// RenderFooter renders the shared and document specific assets, the extra
// footer markup and closes the document.
func RenderFooter(opts FooterOptions) (string, error) {
	if opts.ResolveResourceURI == nil {
		return "", ErrNoResolver
	}
	if opts.ScriptFile == "" || opts.StyleFile == "" {
		return "", ErrNoFileName
	}
	return execute(footerTpl, page{
		StylePath:  "css/" + opts.StyleFile + ".css",
		ScriptPath: "js/" + opts.ScriptFile + ".js",
		Footer:     opts.Footer.markup(),
		resolve:    opts.ResolveResourceURI,
	})
}

// RenderDocument renders a complete document: header, navigation bar,
// content and footer.
func RenderDocument(opts DocumentOptions) (string, error) {
	if opts.ResolveResourceURI == nil {
		return "", ErrNoResolver
	}
	if opts.Name == "" {
		return "", ErrNoFileName
	}

	header, err := RenderHeader(HeaderOptions{
		Title:              opts.Title,
		ResolveResourceURI: opts.ResolveResourceURI,
	})
	if err != nil {
		return "", err
	}
	navBar, err := RenderNavBar(NavBarOptions{
		Title:              opts.Title,
		ResolveResourceURI: opts.ResolveResourceURI,
		HeaderButtons:      opts.HeaderButtons,
	})
	if err != nil {
		return "", err
	}
	footer, err := RenderFooter(FooterOptions{
		ResolveResourceURI: opts.ResolveResourceURI,
		ScriptFile:         opts.Name,
		StyleFile:          opts.Name,
		Footer:             opts.Footer,
	})
	if err != nil {
		return "", err
	}

	return header + navBar + string(opts.Content.markup()) + footer, nil
}
