package assistant

const taxResponse = `Here are some key tax tips for small businesses:

**1. Keep Accurate Records**
Maintain detailed records of all income and expenses throughout the year.

**2. Know Your Deductions**
Common deductible expenses include:
- Office supplies and equipment
- Business travel
- Home office (if applicable)
- Professional services

**3. Quarterly Estimates**
If you're self-employed, pay quarterly estimated taxes to avoid penalties.

**4. Tax Rates**
Small business tax rates vary by structure; check the rate configured in your settings.

Would you like me to generate a tax summary report for your business?`

const invoiceResponse = `Here are best practices for invoicing:

**1. Clear Payment Terms**
Include due dates and late fees clearly on each invoice.

**2. Itemize Services**
List each service/product with quantity and rate.

**3. Follow Up**
Send reminders for unpaid invoices.

**4. Offer Multiple Payment Methods**
Bank transfer, credit card, e-wallet, etc.

You currently have %d overdue invoices. Would you like me to help you send reminders?`

const profitLossResponse = `A Profit & Loss (P&L) statement shows your revenue minus expenses over a period.

**To analyze your P&L:**

1. **Gross Profit** = Revenue - Cost of Goods Sold
2. **Operating Expenses** = All business expenses
3. **Net Profit** = Gross Profit - Operating Expenses

**Key Metrics to Watch:**
- Profit margin (Net Profit / Revenue x 100)
- Expense ratio (Expenses / Revenue x 100)
- Revenue growth trend

Would you like me to generate a P&L report for a specific period?`

const cashFlowResponse = `Cash flow is the lifeblood of any business. Here's how to improve it:

**1. Invoice Quickly**
Send invoices immediately after completing work.

**2. Offer Early Payment Discounts**
2%% discount if paid within 10 days.

**3. Monitor Receivables**
Track average payment time and follow up promptly.

**4. Manage Inventory**
Don't tie up too much cash in inventory.

**5. Build a Cash Reserve**
Aim for 3-6 months of operating expenses.

Your current cash position: %s this month.`

const expenseResponse = `Effective expense tracking tips:

**1. Categorize Everything**
Assign each expense to a category for better analysis.

**2. Track in Real-Time**
Don't wait to record expenses - do it immediately.

**3. Keep Receipts**
Save all receipts for documentation and tax purposes.

**4. Review Monthly**
Compare actual expenses to budget monthly.

**Your Top Expense Categories:**
`

const budgetResponse = `Creating an effective budget:

**1. Start with Goals**
Define what you want to achieve.

**2. Calculate Fixed Costs**
Rent, salaries, insurance - costs that don't change much.

**3. Estimate Variable Costs**
Marketing, supplies, utilities.

**4. Add a Buffer**
Include 10-15% for unexpected expenses.

**5. Review and Adjust**
Compare actual vs. budget monthly.

Would you like me to help you set up a budget for specific categories?`

const healthResponse = `Here's your current financial snapshot:

**This Month:**
- Income: %s
- Expenses: %s
- Net Profit: %s

**Invoices:**
- Pending: %d
- Overdue: %d

**Estimated Tax:** %s

Would you like me to generate a detailed financial report?`

const defaultResponse = `I'm your bookkeeping assistant. I can help you with:

**Financial Analysis**
- Profit & Loss reports
- Cash flow analysis
- Financial health checks

**Invoicing**
- Creating and tracking invoices
- Payment follow-ups

**Expenses**
- Tracking and categorizing
- Budget vs actual analysis

**Tax**
- Tax planning tips
- Deduction optimization

**Banking**
- Reconciliation
- Transaction matching

What would you like to know more about?`
